package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/nPaBwaYT/sdeslab/cripta"
	"github.com/nPaBwaYT/sdeslab/internal/config"
	"github.com/nPaBwaYT/sdeslab/internal/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// App is the command-line front end over the cripta package. It validates
// nothing itself: every input goes straight to the cipher, which reports
// typed errors.
type App struct {
	Config *config.AppConfig
	Log    *logrus.Entry

	out    io.Writer
	errOut io.Writer
}

func NewApp(config *config.AppConfig) *App {
	if config.UserConfig.Output.NoColor {
		color.NoColor = true
	}

	return &App{
		Config: config,
		Log:    log.NewLogger(config),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (app *App) SetOutput(out io.Writer, errOut io.Writer) {
	app.out = out
	app.errOut = errOut
}

var (
	labelColor = color.New(color.FgCyan).SprintFunc()
	valueColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
)

func (app *App) printField(label string, value string) {
	fmt.Fprintf(app.out, "%s %s\n", labelColor(label+":"), valueColor(value))
}

func (app *App) Subkeys(key string) error {
	k1, k2, err := cripta.GenerateSubkeysString(key)
	if err != nil {
		return err
	}

	app.printField("K1", k1)
	app.printField("K2", k2)
	return nil
}

func (app *App) EncryptBlock(plaintext string, key string) error {
	ciphertext, err := cripta.EncryptBlockString(plaintext, key)
	if err != nil {
		return err
	}

	app.Log.WithFields(logrus.Fields{"plaintext": plaintext, "ciphertext": ciphertext}).Debug("block encrypted")
	app.printField("Ciphertext", ciphertext)
	return nil
}

func (app *App) DecryptBlock(ciphertext string, key string) error {
	plaintext, err := cripta.DecryptBlockString(ciphertext, key)
	if err != nil {
		return err
	}

	app.Log.WithFields(logrus.Fields{"plaintext": plaintext, "ciphertext": ciphertext}).Debug("block decrypted")
	app.printField("Plaintext", plaintext)
	return nil
}

func (app *App) textContext(key string) (*cripta.CipherContext, error) {
	k, err := cripta.ParseBitVector(key, cripta.KeyWidth)
	if err != nil {
		return nil, err
	}

	sdes, err := cripta.NewSDESCipher(k)
	if err != nil {
		return nil, err
	}

	var opts []cripta.ContextOption
	if app.Config.UserConfig.Text.Parallel {
		opts = append(opts, cripta.WithParallel(app.Config.UserConfig.Text.Workers))
	}

	return cripta.NewCipherContext(sdes, opts...)
}

// EncryptText prints the ciphertext as text, or as hex bytes when asHex is
// set (ciphertext characters are often unprintable).
func (app *App) EncryptText(text string, key string, asHex bool) error {
	ctx, err := app.textContext(key)
	if err != nil {
		return err
	}

	ciphertext, err := ctx.EncryptText(text)
	if err != nil {
		return err
	}

	app.Log.WithFields(logrus.Fields{"blocks": len([]rune(text)), "parallel": ctx.IsParallel()}).Debug("text encrypted")

	if asHex {
		app.printField("Ciphertext", hex.EncodeToString(latin1Bytes(ciphertext)))
		return nil
	}
	app.printField("Ciphertext", ciphertext)
	return nil
}

// DecryptText takes text, or hex bytes when fromHex is set.
func (app *App) DecryptText(input string, key string, fromHex bool) error {
	ctx, err := app.textContext(key)
	if err != nil {
		return err
	}

	var plaintext string
	if fromHex {
		data, err := hex.DecodeString(strings.TrimSpace(input))
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}

		decrypted, err := ctx.DecryptBytes(data)
		if err != nil {
			return err
		}
		plaintext = latin1Text(decrypted)
	} else {
		plaintext, err = ctx.DecryptText(input)
		if err != nil {
			return err
		}
	}

	app.printField("Plaintext", plaintext)
	return nil
}

// BruteForce tries all 1024 keys and prints every one that maps plaintext
// to ciphertext.
func (app *App) BruteForce(ctx context.Context, plaintext string, ciphertext string, workers int) error {
	plainBlock, err := cripta.ParseBitVector(plaintext, cripta.BlockWidth)
	if err != nil {
		return err
	}

	cipherBlock, err := cripta.ParseBitVector(ciphertext, cripta.BlockWidth)
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = app.Config.UserConfig.Search.Workers
	}

	searcher := cripta.NewKeySearcher(
		cripta.WithWorkers(workers),
		cripta.WithBatchSize(app.Config.UserConfig.Search.BatchSize),
	)

	onProgress := func(percent int) {
		if !app.Config.UserConfig.Output.HideProgress {
			fmt.Fprintf(app.errOut, "\rSearching keys... %3d%%", percent)
		}
	}

	result, err := searcher.Search(ctx, plainBlock, cipherBlock, onProgress)
	if !app.Config.UserConfig.Output.HideProgress {
		fmt.Fprintln(app.errOut)
	}
	if err != nil {
		return err
	}

	app.Log.WithFields(logrus.Fields{
		"plaintext":  plaintext,
		"ciphertext": ciphertext,
		"workers":    searcher.Workers(),
		"batchSize":  searcher.BatchSize(),
		"matches":    len(result.Keys),
		"elapsed":    result.Elapsed.String(),
	}).Info("key search finished")

	if len(result.Keys) == 0 {
		fmt.Fprintln(app.out, warnColor("No key maps this plaintext to this ciphertext"))
	} else {
		lines := lo.Map(result.KeyStrings(), func(key string, i int) string {
			return fmt.Sprintf("%4d  %s", i+1, valueColor(key))
		})
		app.printField("Keys found", fmt.Sprintf("%d", len(result.Keys)))
		fmt.Fprintln(app.out, strings.Join(lines, "\n"))
	}

	app.printField("Keys tried", fmt.Sprintf("%d", result.Tried))
	app.printField("Time taken", result.Elapsed.String())
	return nil
}

// KnownError returns the user-facing message for input errors, which are
// not worth a stack trace.
func (app *App) KnownError(err error) (string, bool) {
	var cipherErr *cripta.CipherError
	if !errors.As(err, &cipherErr) {
		return "", false
	}

	switch cipherErr.Kind {
	case cripta.WidthMismatch:
		return fmt.Sprintf("Input has %d bits but %d are required", cipherErr.Got, cipherErr.Want), true
	case cripta.InvalidSymbol:
		return fmt.Sprintf("Only 0 and 1 are allowed, found %q at position %d", cipherErr.Symbol, cipherErr.Position+1), true
	case cripta.UnsupportedCharacter:
		return fmt.Sprintf("Character %q at position %d is outside the single-byte range", cipherErr.Symbol, cipherErr.Position+1), true
	}
	return "", false
}

func latin1Bytes(text string) []byte {
	return lo.Map([]rune(text), func(r rune, _ int) byte {
		return byte(r)
	})
}

func latin1Text(data []byte) string {
	return string(lo.Map(data, func(b byte, _ int) rune {
		return rune(b)
	}))
}

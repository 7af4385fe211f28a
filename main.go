package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/nPaBwaYT/sdeslab/internal/app"
	"github.com/nPaBwaYT/sdeslab/internal/config"
)

/*
Получение подключей K1 и K2:
sdeslab subkeys -k 1010000010

Шифрование одного блока:
sdeslab encrypt -p 10100101 -k 1010000010

Шифрование текста (вывод в hex):
sdeslab encrypt-text -t "Hello" -k 1010000010 --hex

Перебор всех 1024 ключей по известной паре:
sdeslab bruteforce -p 10100101 -c 00001010 -w 4
*/

var (
	version = "unversioned"

	configFlag    = false
	debuggingFlag = false

	keyFlag        string
	plaintextFlag  string
	ciphertextFlag string
	textFlag       string
	hexFlag        = false
	workersFlag    = 0
)

func main() {
	info := fmt.Sprintf("%s\nOS: %s\nArch: %s", version, runtime.GOOS, runtime.GOARCH)

	flaggy.SetName("sdeslab")
	flaggy.SetDescription("Simplified DES: block and text encryption, exhaustive key search")
	flaggy.Bool(&configFlag, "", "config", "Print the default config")
	flaggy.Bool(&debuggingFlag, "d", "debug", "Write a debug log to the config directory")
	flaggy.SetVersion(info)

	subkeysCmd := flaggy.NewSubcommand("subkeys")
	subkeysCmd.Description = "Derive K1 and K2 from a 10-bit key"
	subkeysCmd.String(&keyFlag, "k", "key", "10-bit key, e.g. 1010000010")

	encryptCmd := flaggy.NewSubcommand("encrypt")
	encryptCmd.Description = "Encrypt one 8-bit block"
	encryptCmd.String(&plaintextFlag, "p", "plaintext", "8-bit plaintext block")
	encryptCmd.String(&keyFlag, "k", "key", "10-bit key")

	decryptCmd := flaggy.NewSubcommand("decrypt")
	decryptCmd.Description = "Decrypt one 8-bit block"
	decryptCmd.String(&ciphertextFlag, "c", "ciphertext", "8-bit ciphertext block")
	decryptCmd.String(&keyFlag, "k", "key", "10-bit key")

	encryptTextCmd := flaggy.NewSubcommand("encrypt-text")
	encryptTextCmd.Description = "Encrypt text one character per block (characters up to U+00FF)"
	encryptTextCmd.String(&textFlag, "t", "text", "plaintext")
	encryptTextCmd.String(&keyFlag, "k", "key", "10-bit key")
	encryptTextCmd.Bool(&hexFlag, "x", "hex", "print the ciphertext as hex bytes")

	decryptTextCmd := flaggy.NewSubcommand("decrypt-text")
	decryptTextCmd.Description = "Decrypt text produced by encrypt-text"
	decryptTextCmd.String(&textFlag, "t", "text", "ciphertext")
	decryptTextCmd.String(&keyFlag, "k", "key", "10-bit key")
	decryptTextCmd.Bool(&hexFlag, "x", "hex", "read the ciphertext as hex bytes")

	bruteForceCmd := flaggy.NewSubcommand("bruteforce")
	bruteForceCmd.Description = "Find every key that maps a plaintext block to a ciphertext block"
	bruteForceCmd.String(&plaintextFlag, "p", "plaintext", "8-bit plaintext block")
	bruteForceCmd.String(&ciphertextFlag, "c", "ciphertext", "8-bit ciphertext block")
	bruteForceCmd.Int(&workersFlag, "w", "workers", "worker goroutines (default from config, 0 = one per CPU)")

	for _, cmd := range []*flaggy.Subcommand{subkeysCmd, encryptCmd, decryptCmd, encryptTextCmd, decryptTextCmd, bruteForceCmd} {
		flaggy.AttachSubcommand(cmd, 1)
	}

	flaggy.Parse()

	if configFlag {
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		err := encoder.Encode(config.GetDefaultConfig())
		if err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("%v\n", buf.String())
		os.Exit(0)
	}

	appConfig, err := config.NewAppConfig("sdeslab", version, debuggingFlag)
	if err != nil {
		log.Fatal(err.Error())
	}

	a := app.NewApp(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case subkeysCmd.Used:
		err = a.Subkeys(keyFlag)
	case encryptCmd.Used:
		err = a.EncryptBlock(plaintextFlag, keyFlag)
	case decryptCmd.Used:
		err = a.DecryptBlock(ciphertextFlag, keyFlag)
	case encryptTextCmd.Used:
		err = a.EncryptText(textFlag, keyFlag, hexFlag)
	case decryptTextCmd.Used:
		err = a.DecryptText(textFlag, keyFlag, hexFlag)
	case bruteForceCmd.Used:
		err = a.BruteForce(ctx, plaintextFlag, ciphertextFlag, workersFlag)
	default:
		flaggy.ShowHelpAndExit("")
	}

	if err != nil {
		if errMessage, known := a.KnownError(err); known {
			log.Println(errMessage)
			os.Exit(1)
		}

		newErr := errors.Wrap(err, 0)
		stackTrace := newErr.ErrorStack()
		a.Log.Error(stackTrace)

		log.Fatal(fmt.Sprintf("An error occurred\n\n%s", stackTrace))
	}
}

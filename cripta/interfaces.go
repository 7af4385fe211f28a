package cripta

type IKeySchedule interface {
	GenerateRoundKeys(masterKey BitVector) ([]BitVector, error)
}

type IRoundFunction interface {
	Apply(inputHalf BitVector, roundKey BitVector) (BitVector, error)
}

type ISymmetricCipher interface {
	EncryptBlock(plainBlock BitVector) (BitVector, error)
	DecryptBlock(cipherBlock BitVector) (BitVector, error)
}

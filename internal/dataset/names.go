package dataset

import "math/rand/v2"

// SampleSheetName is the fixed object name of the published sample sheet.
const SampleSheetName = "sample_sheet.csv"

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns length characters of [a-z0-9] drawn from a generator
// seeded with seed. The same seed always yields the same string.
func RandomString(length int, seed uint64) string {
	r := rand.New(rand.NewPCG(seed, seed))
	b := make([]byte, length)
	for i := range b {
		b[i] = nameAlphabet[r.IntN(len(nameAlphabet))]
	}
	return string(b)
}

// AnswerSheetName returns the object name the answer sheet is published under.
func AnswerSheetName(seed uint64) string {
	return "answer_sheet_" + RandomString(8, seed) + ".csv"
}

package test

import (
	"fmt"
	"math/rand"
)

const nameLetters = "abcdefghijklmnopqrstuvwxyz"

var givenNames = []string{"Dana", "Noa", "Yossi", "Maya", "Avi", "Tamar", "Omer", "Shira"}

// RandomName returns a pseudo-random two part display name.
func RandomName() string {
	surname := make([]byte, 4+rand.Intn(6))
	for i := range surname {
		surname[i] = nameLetters[rand.Intn(len(nameLetters))]
	}
	surname[0] -= 'a' - 'A'
	return givenNames[rand.Intn(len(givenNames))] + " " + string(surname)
}

// RandomEmail returns a pseudo-random lower-case address that is unique per seq.
func RandomEmail(seq int) string {
	return fmt.Sprintf("guest%d.%04d@example.com", seq, rand.Intn(10000))
}

// RandomPhone returns a pseudo-random mobile number in 05X-XXXXXXX form, unique per seq.
func RandomPhone(seq int) string {
	return fmt.Sprintf("05%d-%07d", rand.Intn(10), seq%10_000_000)
}

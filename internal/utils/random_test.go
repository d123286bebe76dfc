package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUsernameFromChineseName(t *testing.T) {
	pattern := regexp.MustCompile(`^z(h|ha|han|hang)?w(e|ei)?[0-9]{1,3}$`)

	for i := 0; i < 50; i++ {
		username := GenerateUsernameFromChineseName("张伟")
		assert.Regexp(t, pattern, username)
	}
}

func TestGenerateUsernameFromLatinName(t *testing.T) {
	username := GenerateUsernameFromChineseName("Alice Lee")
	assert.Regexp(t, `^alicelee[0-9]{1,3}$`, username)
}

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^[0-9]{6}$`, GenerateRandomOTP())
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	assert.Len(t, GenerateRandomPassword(12), 12)
	assert.Empty(t, GenerateRandomPassword(0))
}

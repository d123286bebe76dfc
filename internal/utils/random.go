package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var digits = "0123456789"

// GenerateUsernameFromChineseName 取姓名每个字拼音的随机长度前缀，再加上 1~3 位随机数字，
// 例如 "张伟" 可能得到 "zhw42"
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)

	var username strings.Builder
	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username.WriteString(py[:length])
	}

	// 姓名中没有汉字时退回到姓名本身
	if username.Len() == 0 {
		username.WriteString(strings.ToLower(strings.ReplaceAll(chineseName, " ", "")))
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username.WriteByte(digits[rand.Intn(len(digits))])
	}

	return username.String()
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

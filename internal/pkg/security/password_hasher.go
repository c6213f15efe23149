package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyPassword      = errors.New("password cannot be empty")
)

var hashCost = bcrypt.DefaultCost

// SetHashCost 测试中使用 bcrypt.MinCost 加速，超出范围时忽略
func SetHashCost(cost int) {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		hashCost = cost
	}
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPasswordHash 密码不匹配时返回 ErrInvalidCredentials
func CheckPasswordHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}

package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package-wide validator for request structs
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
	})
}

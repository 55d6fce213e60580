package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

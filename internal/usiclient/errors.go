package usiclient

import "errors"

// ErrRecordNotFound возвращается, когда USI отсутствует в MemoryClient
var ErrRecordNotFound = errors.New("USI record not found")

// ErrRecordExists возвращается при повторной регистрации того же USI
var ErrRecordExists = errors.New("USI record already exists")

// ErrInvalidRecord возвращается для записи без USI или даты рождения
var ErrInvalidRecord = errors.New("invalid USI record")

// ErrUnknownMode возвращается для неизвестного режима клиента
var ErrUnknownMode = errors.New("unknown USI client mode")

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageFailure хранилище недоступно, не пишется или содержит поврежденный документ
	ErrStorageFailure = errors.New("storage failure")
	// ErrNotFound запрошенный объект отсутствует
	ErrNotFound = errors.New("not found")
	// ErrNothingToRestore стек удаленных записей пуст
	ErrNothingToRestore = fmt.Errorf("%w: no deleted entries to restore", ErrNotFound)
	// ErrCounterOverflow результат не помещается в int64
	ErrCounterOverflow = errors.New("counter overflow")
)

package handler

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"tallykeeper/internal/service"
)

// maxAmountBodyBytes тело запроса с величиной шага не бывает большим
const maxAmountBodyBytes = 1 << 16

type amountRequest struct {
	Amount json.RawMessage `json:"amount"`
}

// readAmount извлекает поле amount из тела запроса.
// Пустое или некорректное тело, отсутствующее поле, строки, дробные и
// неконечные значения заменяются шагом по умолчанию, ошибка не возвращается.
func readAmount(body io.Reader) int64 {
	if body == nil {
		return service.DefaultAmount
	}

	var req amountRequest
	if err := json.NewDecoder(io.LimitReader(body, maxAmountBodyBytes)).Decode(&req); err != nil {
		return service.DefaultAmount
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		return service.DefaultAmount
	}
	return amount
}

// parseAmount принимает только JSON-числа, представимые как int64
func parseAmount(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}

	// Строки, булевы значения и объекты не являются числами
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 уже не помещается в int64
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

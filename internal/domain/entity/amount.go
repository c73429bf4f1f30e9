package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var yenReplacer = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "", "　", "")

// ParseYen reads a yen amount written as 5250, "5250", "5,250" or "¥5,250".
// It reports false for blank or non-numeric text.
func ParseYen(s string) (int64, bool) {
	s = yenReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// UnmarshalJSON decodes an application row. Spreadsheet cells arrive as
// numbers or text, so an amount that cannot be read becomes 0 instead of
// failing the whole list.
func (a *Application) UnmarshalJSON(b []byte) error {
	type row Application
	aux := struct {
		*row
		Amount json.RawMessage `json:"amount"`
	}{row: (*row)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.Amount = decodeAmount(aux.Amount)
	return nil
}

func decodeAmount(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v, _ := ParseYen(n.String())
		return v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, _ := ParseYen(s)
		return v
	}
	return 0
}

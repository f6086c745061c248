package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FoodItem is one consumed food with its macro snapshot.
type FoodItem struct {
	Name     string `json:"name"`
	Calories Kcal   `json:"calories"`
	Protein  Grams  `json:"protein"`
	Carbs    Grams  `json:"carbs"`
	Fats     Grams  `json:"fats"`
}

// Kcal is an integer calorie count. It also decodes from floats and from
// strings such as "250 kcal", since model output is not always typed.
type Kcal int

func (k *Kcal) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*k = Kcal(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if string(b) == "null" {
			*k = 0
			return nil
		}
		return err
	}
	*k = Kcal(LeadingInt(s))
	return nil
}

// Grams is a free-text macro amount such as "10g". Bare numbers decode to "<n>g".
type Grams string

func (g *Grams) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*g = Grams(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		if string(b) == "null" {
			*g = ""
			return nil
		}
		return err
	}
	*g = Grams(strconv.FormatFloat(f, 'f', -1, 64) + "g")
	return nil
}

// Value is the leading integer of the amount, 0 when there is none.
func (g Grams) Value() int { return LeadingInt(string(g)) }

// LeadingInt parses the integer prefix of s the way a lenient parser would:
// leading whitespace and an optional sign are accepted, anything after the
// digits is ignored, and a non-numeric prefix yields 0.
func LeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

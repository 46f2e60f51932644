// Package pollen fetches the daily pollen forecast and reduces it to a
// coarse category.
package pollen

import (
	"errors"
	"fmt"
)

// ErrParse is returned when the forecast page cannot be reduced to a category.
var ErrParse = errors.New("pollen: could not parse forecast")

// Category is the coarse pollen level. The zero value is Unknown.
type Category int

const (
	Unknown Category = iota
	Low
	Medium
	High
)

func (c Category) String() string {
	switch c {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory converts a data-category attribute value.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "h":
		return High, nil
	case "m":
		return Medium, nil
	case "l":
		return Low, nil
	default:
		return Unknown, fmt.Errorf("%w: unrecognised category %q", ErrParse, s)
	}
}

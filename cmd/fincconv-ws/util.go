package main

import (
	"strconv"
)

// miscellaneous utility functions

func itoa(val int64) string {
	return strconv.FormatInt(val, 10)
}

package services

import (
	"regexp"
	"strconv"
)

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*h`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// ParseMinutes converts a free-form duration such as "1h 45min", "2h" or
// "45min" into minutes. Unparseable or empty input yields 0.
func ParseMinutes(text string) int {
	if text == "" {
		return 0
	}

	return firstNumber(hoursPattern, text)*60 + firstNumber(minutesPattern, text)
}

func firstNumber(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

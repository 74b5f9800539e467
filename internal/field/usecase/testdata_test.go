package usecase

import "regexp"

var ssnPattern = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)

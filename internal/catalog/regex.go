package catalog

import "regexp"

func compileCheck(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

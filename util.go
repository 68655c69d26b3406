package genarena

import "strings"

func ensure(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func rpad(s string, n int, pad rune) string {
	rem := n - len(s)
	if rem <= 0 {
		return s
	}
	return s + strings.Repeat(string(pad), rem)
}

package util

import "strconv"

// StorageKey returns the provider key of one memoized sub-problem:
//
//	memo:<ns>:<token>:<steps>
func StorageKey(ns string, token uint64, steps uint32) string {
	b := make([]byte, 0, len("memo:")+len(ns)+1+20+1+10)
	b = append(b, "memo:"...)
	b = append(b, ns...)
	b = append(b, ':')
	b = strconv.AppendUint(b, token, 10)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(steps), 10)
	return string(b)
}

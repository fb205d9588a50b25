//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package encoding provides rune-safe text splitting utilities.
//
// Chunk sizes are measured in runes, not bytes, so multi-byte characters
// are never cut in half.
package encoding

import "unicode/utf8"

// RuneCount returns the number of runes in s.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// SplitBySize splits s into consecutive pieces of at most size runes.
// The last piece may be shorter. A non-positive size returns s unsplit.
func SplitBySize(s string, size int) []string {
	if size <= 0 || s == "" {
		return []string{s}
	}
	runes := []rune(s)
	pieces := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// Tail returns the last n runes of s. When s has fewer than n runes the
// whole string is returned.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

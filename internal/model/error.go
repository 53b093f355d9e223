// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package model

type ErrorReason int

const (
	ErrorReasonProcess ErrorReason = iota
	ErrorReasonNotFound
	ErrorReasonUnauthorized
)

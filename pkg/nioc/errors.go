/*
Copyright 2026 The niocctl Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nioc

import (
	"errors"
	"fmt"
)

// UsageError reports input that is rejected before any call to the
// management platform is made.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...interface{}) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

// NotFoundError reports a switch reference that did not resolve to a
// distributed switch known to vCenter.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dvSwitch %q not found", e.Name)
}

// IsNotFound reports whether err is a switch resolution failure.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// SPDX-License-Identifier: MIT

package analytics

// SetComputedHook installs f to run after a successful computation and
// before Refresh decides whether to install the result.
func SetComputedHook(s *Service, f func()) { s.computed = f }

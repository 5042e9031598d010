// SPDX-License-Identifier: MIT

package analytics

import "errors"

// ErrDiscarded indicates a computation finished after its context was done;
// the result was not installed.
var ErrDiscarded = errors.New("analytics: result discarded")

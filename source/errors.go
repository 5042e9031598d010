// SPDX-License-Identifier: MIT

package source

import "errors"

var (
	// ErrUnknownFormat indicates an extension or format name with no decoder.
	ErrUnknownFormat = errors.New("source: unknown document format")

	// ErrDecode indicates the document bytes could not be parsed.
	ErrDecode = errors.New("source: decode failed")

	// ErrAmbiguousDocument indicates both links and adjacency were given.
	ErrAmbiguousDocument = errors.New("source: document has both links and adjacency")

	// ErrInvalidDocument indicates a structurally valid document whose
	// contents do not describe a topology (e.g. adjacency without nodes).
	ErrInvalidDocument = errors.New("source: invalid document")
)

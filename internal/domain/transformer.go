package domain

import "io"

// Transformer decodes a raw upstream payload into Articles.
type Transformer interface {
	Transform(reader io.Reader) ([]Article, error)
}

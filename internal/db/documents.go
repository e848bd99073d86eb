package db

import (
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// decodeAll drains iter, decoding every document into a fresh T and letting
// setID copy the document ID onto it.
func decodeAll[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]*T, error) {
	defer iter.Stop()

	out := []*T{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate documents: %w", err)
		}
		item := new(T)
		if err := doc.DataTo(item); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.Ref.ID, err)
		}
		setID(item, doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}

// wrap attaches a package sentinel to err when the status code calls for one.
func wrap(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if sentinel := translate(err); sentinel != nil {
		return fmt.Errorf("%s: %w", msg, sentinel)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

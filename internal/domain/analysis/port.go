package analysis

import "context"

// Completer port for the external completion service. Implementations
// issue exactly one network call and map failures to NETWORK_ERROR,
// UPSTREAM_ERROR or EMPTY_UPSTREAM_REPLY.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TemplateStore port for the prompt template source. Load returns the
// named resource or a TEMPLATE_MISSING error; it never substitutes a
// default.
type TemplateStore interface {
	Load(ctx context.Context, name string) (string, error)
}

// TextCodec encrypts the original text at the persistence boundary.
// Decode returns ErrDecryptionFailed for ciphertext that does not
// authenticate.
type TextCodec interface {
	Encode(plaintext string) ([]byte, error)
	Decode(ciphertext []byte) (string, error)
}

// Repository port for persisting and querying analysis records.
// Save commits one record atomically; ListByUser returns records for
// one owner, newest first, with Ciphertext populated and Text empty.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*Record, error)
}

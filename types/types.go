package types

// BundleRecord is an artifact bundle stored in the registry. Documents
// holds the encoder, scaler and both models as a single JSON object so
// a bundle can be rebuilt without access to the original files. Created
// is in unix nanoseconds and orders the records of a version.
type BundleRecord struct {
	ID        string `db:"bundle_id" json:"id"`
	Version   string `db:"bundle_version" json:"version"`
	Currency  string `db:"bundle_currency" json:"currency"`
	Documents string `db:"bundle_documents" json:"documents"`
	Created   int64  `db:"bundle_created" json:"created"`
}

// BundleSummary describes the bundle a running service is predicting with.
type BundleSummary struct {
	Version  string   `json:"version"`
	Currency string   `json:"currency"`
	Titles   []string `json:"titles"`
	Scaler   string   `json:"scaler"`
	MinModel string   `json:"min_model"`
	MaxModel string   `json:"max_model"`
}

package types

// JSONMap stores loosely-typed metadata blobs as jsonb.
type JSONMap map[string]any

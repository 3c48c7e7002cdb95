package badger

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
	chunkPrefix    = "chkrec"
	chunkDocPrefix = "chkdoc"
)

// makeDocumentKey generates a key for a document record by ID.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + ":" + id)
}

// makeChunkKey generates a key for a chunk record by chunk ID.
func makeChunkKey(chunkID string) []byte {
	return []byte(chunkPrefix + ":" + chunkID)
}

// makeChunkDocKey generates a composite key for the per-document chunk index.
// Format: prefix:documentID:chunkID. The value stored under it is the chunk's
// primary key, so a document's batch can be deleted without scanning all chunks.
func makeChunkDocKey(documentID, chunkID string) []byte {
	return []byte(chunkDocPrefix + ":" + documentID + ":" + chunkID)
}

// makeChunkDocPrefix generates the scan prefix for one document's chunk index.
func makeChunkDocPrefix(documentID string) []byte {
	return []byte(chunkDocPrefix + ":" + documentID + ":")
}

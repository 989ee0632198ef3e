// Package archive stores computed descriptors in a blobstore.BlobStore.
//
// Every saved descriptor gets a random uuid and two blobs:
//
//	snapshots/<id>.rsc   persistence snapshot (optionally compressed)
//	manifests/<id>.json  Manifest describing calculator, shape and checksum
//
// The snapshot is written first; the manifest acts as the commit marker, so
// List never reports a descriptor whose snapshot is missing.
package archive

/*

Package imgfs implements a single-file photo store in the spirit of
Facebook's Haystack. Many small JPEG images are packed into one
append-mostly container file. The container starts with a fixed-size
header, followed by a fixed-size metadata table of max_files slots, and
then the payload area. Payloads are addressed by absolute file offsets
recorded in the slots.

Each image is known by a short string identifier and may be served at one
of three resolutions: a thumbnail, a small version, and the original.
Derived resolutions are generated on first demand and appended to the
container so later reads are plain positioned reads.

Identical original payloads are deduplicated: an insert whose SHA-256
matches an existing slot shares that slot's payload offsets instead of
appending a second copy. Deletes only clear the slot's valid flag; payload
bytes are never reclaimed, so a shared payload survives the deletion of
any one of the ids referencing it.

All operations on an open container are serialized through a single gate,
so an ImgFS value may be shared freely between goroutines.

The on-disk layout is bit-exact little-endian with C natural alignment,
so containers are portable between machines and tools.

*/
package imgfs

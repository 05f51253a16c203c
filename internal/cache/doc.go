// Package cache derives content-addressed output names for local images and
// answers whether a previous run already produced what a media reference
// needs.
//
// Local images are named by the first 16 hex characters of the SHA-256 of
// their bytes, so identical content always maps to the same files. A local
// image is reused when both its image and thumbnail exist in the output
// directory. Remote images and videos are reused when the previous run's
// timeline holds an item with the same canonical src. Existence is the only
// validity check; nothing is compared byte for byte.
package cache

// Package sprite implements pixel-exact access to a packed sprite sheet.
//
// A sheet is decoded once into a buffer owned by the Sprite. Fragments are
// read back by rectangle with no resampling or color conversion, and written
// out again as PNG, which is lossless. Since re-encoding may change the
// container bytes, compare fragments with package signature rather than by
// their encoded bytes.
package sprite

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

// BinToGray converts a binary value to reflected Gray code.
//
func BinToGray(b uint64) uint64 {
	return b ^ b>>1
}

// GrayToBin converts a reflected Gray code value back to binary.
//
func GrayToBin(g uint64) uint64 {
	for s := uint(1); s < 64; s <<= 1 {
		g ^= g >> s
	}
	return g
}

// FullMatch returns true if wgray and rgray, two Gray-coded pointers of the
// given bit size, are exactly one lap apart: they differ in their two most
// significant bits and are equal in all the others.
//
func FullMatch(wgray, rgray uint64, bits uint) bool {
	if bits < 2 {
		return false
	}
	return wgray == rgray^(3<<(bits-2))
}

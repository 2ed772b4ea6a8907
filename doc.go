// Package reformat converts planar YUV images to interleaved RGB and rescales YUV and
// alpha planes.
//
// Conversion picks a libyuv style primitive from the chroma format, bit depth, RGB
// layout, alpha and chroma upsampling of the request, images deeper than 8 bits that
// have no matching primitive are converted through an 8-bit copy. Primitives run on a
// pure-Go backend by default, LoadLibYUV provides a backend calling into the system
// libyuv.
package reformat

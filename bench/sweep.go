package bench

// DefaultSizes is the benchmark sweep: small sizes up to 128 with most
// primes above 36 left out, then practically relevant larger sizes
// including mixed-radix video and audio frame lengths.
var DefaultSizes = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32,
	33, 34, 35, 36, 38, 39, 40, 42, 44, 45, 46, 48, 49, 50, 51, 52,
	54, 55, 56, 57, 58, 60, 62, 63, 64, 65, 66, 68, 69, 70, 72, 75,
	76, 77, 78, 80, 81, 84, 85, 87, 88, 90, 91, 92, 93, 95, 96, 98,
	99, 100, 102, 104, 105, 108, 110, 112, 114, 115, 116, 117, 119, 120, 121, 124,
	125, 126, 128,
	256, 480, 512, 640, 720, 882, 1024, 1080, 1280, 1920,
	4096, 8192, 16384, 32768, 65536,
}

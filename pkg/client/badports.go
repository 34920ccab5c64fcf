package client

import "sort"

// badPorts is the Fetch-specification bad-port blocklist: TCP ports
// that collide with another well-known service closely enough that
// letting an HTTP client target them is a request-smuggling or
// protocol-confusion risk. Kept as a sorted static array and
// binary-searched rather than a map — it's small, fixed at compile
// time, and never mutated. Whether to extend it past this snapshot is
// an open question; do not extend it unilaterally.
var badPorts = [...]int{
	1, 7, 9, 11, 13, 15, 17, 19, 20, 21, 22, 23, 25, 37, 42, 43, 53, 69, 77, 79,
	87, 95, 101, 102, 103, 104, 109, 110, 111, 113, 115, 117, 119, 123, 135, 137,
	139, 143, 161, 179, 389, 427, 465, 512, 513, 514, 515, 526, 530, 531, 532,
	540, 548, 554, 556, 563, 587, 601, 636, 989, 990, 993, 995, 1719, 1720, 1723,
	2049, 3659, 4045, 5060, 5061, 6000, 6566, 6665, 6666, 6667, 6668, 6669, 6697,
	10080,
}

// isBadPort reports whether port appears in the blocklist.
func isBadPort(port int) bool {
	i := sort.SearchInts(badPorts[:], port)
	return i < len(badPorts) && badPorts[i] == port
}

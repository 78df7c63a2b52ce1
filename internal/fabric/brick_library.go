package fabric

import "github.com/go-gl/mathgl/mgl64"

var brickLibrary = map[BrickName]*Brick{
	LeftTwist: {
		Name: LeftTwist,
		Joints: []mgl64.Vec3{
			{-0.500000, 0.000000, 0.866028},
			{-0.500000, 0.000000, -0.866028},
			{1.000000, 0.000000, 0.000000},
			{0.004655, 1.652047, -0.999992},
			{0.863694, 1.652043, 0.504021},
			{-0.868339, 1.652046, 0.495967},
		},
		Intervals: []BrickInterval{
			{1, 3, Pull},
			{0, 3, Push},
			{1, 4, Push},
			{2, 4, Pull},
			{2, 5, Push},
			{0, 5, Pull},
		},
		Faces: []BrickFace{
			{[3]int{2, 1, 0}, ANeg, Left},
			{[3]int{3, 4, 5}, APos, Left},
		},
	},
	RightTwist: {
		Name: RightTwist,
		Joints: []mgl64.Vec3{
			{-0.500001, 0.000000, 0.866024},
			{-0.499998, 0.000000, -0.866024},
			{1.000000, 0.000000, 0.000000},
			{0.863693, 1.652043, -0.504027},
			{0.004651, 1.652045, 0.999985},
			{-0.868336, 1.652040, -0.495971},
		},
		Intervals: []BrickInterval{
			{0, 3, Push},
			{2, 3, Pull},
			{2, 5, Push},
			{1, 5, Pull},
			{0, 4, Pull},
			{1, 4, Push},
		},
		Faces: []BrickFace{
			{[3]int{2, 1, 0}, ANeg, Right},
			{[3]int{3, 4, 5}, APos, Right},
		},
	},
	RightOmniTwist: {
		Name: RightOmniTwist,
		Joints: []mgl64.Vec3{
			{0.008714, 0.056616, 0.000579},
			{1.000000, 0.000000, 0.000000},
			{-0.498965, 0.000000, -0.866282},
			{-0.501035, 0.000000, 0.866282},
			{-0.059065, 1.559766, 1.047565},
			{-1.061005, 1.634545, 1.040761},
			{0.371996, 0.743354, 1.437684},
			{0.496198, 2.371572, 0.865391},
			{0.938741, 1.558709, -0.472263},
			{1.430259, 1.636447, 0.394230},
			{0.496308, 2.371334, -0.867739},
			{1.057067, 0.740329, -1.043843},
			{-0.869593, 1.547232, -0.568764},
			{-0.378333, 1.631422, -1.440080},
			{-1.432399, 0.737172, -0.396862},
			{-1.005423, 2.368254, -0.002648},
			{-0.003867, 2.332181, -0.001919},
			{0.053163, 0.806793, -1.062118},
			{-0.962387, 0.805705, 0.490552},
			{0.883026, 0.813121, 0.577837},
		},
		Intervals: []BrickInterval{
			{3, 13, Push},
			{2, 9, Push},
			{11, 15, Push},
			{1, 5, Push},
			{7, 14, Push},
			{6, 10, Push},
		},
		Faces: []BrickFace{
			{[3]int{2, 11, 13}, BPos, Right},
			{[3]int{13, 15, 14}, DNeg, Left},
			{[3]int{7, 15, 10}, APos, Right},
			{[3]int{3, 14, 5}, CPos, Right},
			{[3]int{6, 9, 1}, DPos, Right},
			{[3]int{5, 7, 6}, BNeg, Left},
			{[3]int{1, 2, 3}, ANeg, Left},
			{[3]int{9, 10, 11}, CNeg, Left},
		},
	},
	LeftOmniTwist: {
		Name: LeftOmniTwist,
		Joints: []mgl64.Vec3{
			{-0.001052, 0.065878, -0.005261},
			{1.000000, 0.000000, 0.000000},
			{-0.498019, 0.000000, -0.862215},
			{-0.501982, 0.000000, 0.862215},
			{-0.068790, 1.552298, -1.043123},
			{-1.060286, 1.637359, -1.042465},
			{0.501305, 2.360666, -0.871356},
			{0.368141, 0.735169, -1.432105},
			{-0.886729, 1.554949, 0.579371},
			{-0.369899, 1.636865, 1.432374},
			{-1.425979, 0.738043, 0.399946},
			{-1.000678, 2.362999, -0.000470},
			{0.928972, 1.552220, 0.460547},
			{1.427644, 1.629460, -0.400411},
			{0.503571, 2.365928, 0.866142},
			{1.061593, 0.737880, 1.033950},
			{0.002486, 2.323556, -0.000375},
			{0.060304, 0.808495, 1.062984},
			{0.902238, 0.804924, -0.588535},
			{-0.962040, 0.807676, -0.485882},
		},
		Intervals: []BrickInterval{
			{11, 15, Push},
			{3, 13, Push},
			{7, 14, Push},
			{2, 9, Push},
			{6, 10, Push},
			{1, 5, Push},
		},
		Faces: []BrickFace{
			{[3]int{10, 2, 5}, DPos, Left},
			{[3]int{13, 15, 14}, DNeg, Right},
			{[3]int{1, 2, 3}, ANeg, Right},
			{[3]int{5, 7, 6}, BNeg, Right},
			{[3]int{14, 11, 6}, APos, Left},
			{[3]int{13, 7, 1}, CPos, Left},
			{[3]int{9, 15, 3}, BPos, Left},
			{[3]int{9, 10, 11}, CNeg, Right},
		},
	},
}

func init() {
	for _, b := range brickLibrary {
		b.compact()
	}
}

package fabric

import "github.com/go-gl/mathgl/mgl64"

type SnapshotInterval struct {
	Alpha    int     `json:"alpha"`
	Omega    int     `json:"omega"`
	Role     string  `json:"role"`
	Material string  `json:"material"`
	Strain   float64 `json:"strain"`
}

type SnapshotFace struct {
	Joints [3]int `json:"joints"`
	Spin   string `json:"spin"`
}

// Snapshot is a flat index-addressed copy of the fabric for consumers that
// render or export it. Joint indices refer to the Joints slice.
type Snapshot struct {
	Age       int                `json:"age"`
	Frozen    bool               `json:"frozen"`
	Joints    []mgl64.Vec3       `json:"joints"`
	Intervals []SnapshotInterval `json:"intervals"`
	Faces     []SnapshotFace     `json:"faces"`
}

func (f *Fabric) Snapshot() *Snapshot {
	s := &Snapshot{Age: f.age, Frozen: f.frozen}
	index := make(map[JointID]int, f.joints.len())
	f.joints.each(func(id ID, j *Joint) {
		index[JointID(id)] = len(s.Joints)
		s.Joints = append(s.Joints, j.Location)
	})
	f.intervals.each(func(_ ID, in *Interval) {
		s.Intervals = append(s.Intervals, SnapshotInterval{
			Alpha:    index[in.Alpha],
			Omega:    index[in.Omega],
			Role:     in.Role.String(),
			Material: in.Material.String(),
			Strain:   in.Strain,
		})
	})
	for _, id := range f.FaceIDs() {
		ends, err := f.FaceEnds(id)
		if err != nil {
			continue
		}
		face := f.faces.get(ID(id))
		s.Faces = append(s.Faces, SnapshotFace{
			Joints: [3]int{index[ends[0]], index[ends[1]], index[ends[2]]},
			Spin:   face.Spin.String(),
		})
	}
	return s
}

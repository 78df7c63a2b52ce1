package fabric

import (
	"math"
)

var joinLinks = [6][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 2}, {2, 0}}

// JoinFaces stitches two facing faces together with six pulls and removes
// both faces. Of the three ways to align the triangles, the one with the
// shortest total connector length wins. Both faces wind the same way seen
// from outside, so the alpha ends are reversed to face the omega ends.
func (f *Fabric) JoinFaces(alphaID, omegaID FaceID) ([]IntervalID, error) {
	alpha, err := f.Face(alphaID)
	if err != nil {
		return nil, err
	}
	omega, err := f.Face(omegaID)
	if err != nil {
		return nil, err
	}
	alphaEnds, err := f.FaceEnds(alphaID)
	if err != nil {
		return nil, err
	}
	omegaEnds, err := f.FaceEnds(omegaID)
	if err != nil {
		return nil, err
	}
	alphaEnds[0], alphaEnds[2] = alphaEnds[2], alphaEnds[0]
	rotated := bestRotation(f, alphaEnds, omegaEnds)
	ideal := (alpha.Scale + omega.Scale) / 2
	created := make([]IntervalID, 0, len(joinLinks))
	for _, link := range joinLinks {
		created = append(created, f.CreateInterval(rotated[link[0]], omegaEnds[link[1]], ideal, PullMaterial))
	}
	if err := f.RemoveFace(alphaID); err != nil {
		return created, err
	}
	if err := f.RemoveFace(omegaID); err != nil {
		return created, err
	}
	return created, nil
}

func bestRotation(f *Fabric, alpha, omega [3]JointID) [3]JointID {
	best := alpha
	shortest := math.Inf(1)
	for r := 0; r < 3; r++ {
		candidate := rotateRight(alpha, r)
		total := 0.0
		for _, link := range joinLinks {
			total += f.Distance(candidate[link[0]], omega[link[1]])
		}
		if total < shortest {
			shortest = total
			best = candidate
		}
	}
	return best
}

func rotateRight(ends [3]JointID, r int) [3]JointID {
	var out [3]JointID
	for i := range ends {
		out[(i+r)%3] = ends[i]
	}
	return out
}

// AddFaceTriangle closes a face with three pulls between its ends.
func (f *Fabric) AddFaceTriangle(id FaceID) error {
	face, err := f.Face(id)
	if err != nil {
		return err
	}
	ends, err := f.FaceEnds(id)
	if err != nil {
		return err
	}
	side := face.Scale * math.Sqrt(3)
	for _, pair := range [3][2]int{{0, 1}, {1, 2}, {2, 0}} {
		f.CreateInterval(ends[pair[0]], ends[pair[1]], side, PullMaterial)
	}
	return nil
}

// ReplaceFaces turns every remaining face into a plain triangle of pulls.
func (f *Fabric) ReplaceFaces() error {
	for _, id := range f.FaceIDs() {
		if err := f.AddFaceTriangle(id); err != nil {
			return err
		}
		if err := f.RemoveFace(id); err != nil {
			return err
		}
	}
	return nil
}

// MergeFacesAtHub removes faces whose middles have been drawn to a common
// hub joint and ties the hub to every one of their ends.
func (f *Fabric) MergeFacesAtHub(hub JointID, faces []FaceID) error {
	type tie struct {
		end   JointID
		ideal float64
	}
	var ties []tie
	for _, id := range faces {
		face, err := f.Face(id)
		if err != nil {
			return err
		}
		ends, err := f.FaceEnds(id)
		if err != nil {
			return err
		}
		for _, end := range ends {
			ties = append(ties, tie{end: end, ideal: face.Scale})
		}
	}
	for _, id := range faces {
		if err := f.RemoveFace(id); err != nil {
			return err
		}
	}
	for _, t := range ties {
		f.CreateInterval(hub, t.end, t.ideal, PullMaterial)
	}
	return nil
}

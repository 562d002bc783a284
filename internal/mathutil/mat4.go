package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for rigid camera-to-world
// transforms: an orthonormal rotation block plus translation, bottom row
// 0 0 0 1.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Rotation returns the upper-left 3×3 block.
func (m Mat4) Rotation() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// InverseRigid inverts a rigid transform: (R, t)⁻¹ = (Rᵀ, −Rᵀt).
// Only valid when the rotation block is orthonormal.
func (m Mat4) InverseRigid() Mat4 {
	rt := m.Rotation().Transpose()
	t := m.Translation()
	nt := rt.MulVec3(t)
	return Mat4{
		rt[0], rt[1], rt[2], -nt[0],
		rt[3], rt[4], rt[5], -nt[1],
		rt[6], rt[7], rt[8], -nt[2],
		0, 0, 0, 1,
	}
}

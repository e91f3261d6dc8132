package domain

// User is the profile the counselor persona is conditioned on. MBTI and Gender
// are empty until the user completes their profile.
type User struct {
	ID     UserID
	Email  string
	MBTI   MBTI
	Gender Gender
}

// HasProfile reports whether both MBTI and gender have been set. Starting a
// consultation requires a complete profile.
func (u *User) HasProfile() bool {
	return u.MBTI != "" && u.Gender != ""
}

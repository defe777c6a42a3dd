package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	match, err := ComparePassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("ComparePassword() error = %v", err)
	}
	if !match {
		t.Fatal("ComparePassword() = false for the original password")
	}

	match, err = ComparePassword("wrong password", hash)
	if err != nil {
		t.Fatalf("ComparePassword() error = %v", err)
	}
	if match {
		t.Fatal("ComparePassword() = true for a wrong password")
	}
}

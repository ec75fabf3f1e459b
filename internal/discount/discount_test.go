package discount

import "testing"

func TestTotal(t *testing.T) {
	tests := []struct {
		name      string
		google    bool
		instagram bool
		want      int
	}{
		{
			name: "no actions",
			want: 5,
		},
		{
			name:   "google review only",
			google: true,
			want:   10,
		},
		{
			name:      "instagram follow only",
			instagram: true,
			want:      10,
		},
		{
			name:      "both actions",
			google:    true,
			instagram: true,
			want:      15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.google, tt.instagram)
			if got != tt.want {
				t.Fatalf("Total(%v, %v) = %d, want %d", tt.google, tt.instagram, got, tt.want)
			}
		})
	}
}

func TestTotalMonotonic(t *testing.T) {
	for _, instagram := range []bool{false, true} {
		if Total(false, instagram) > Total(true, instagram) {
			t.Fatalf("Total must not decrease when googleReviewed becomes true")
		}
	}
	for _, google := range []bool{false, true} {
		if Total(google, false) > Total(google, true) {
			t.Fatalf("Total must not decrease when instagramFollowed becomes true")
		}
	}
}

func TestComplete(t *testing.T) {
	if Complete(true, false) || Complete(false, true) || Complete(false, false) {
		t.Fatalf("Complete must require both flags")
	}
	if !Complete(true, true) {
		t.Fatalf("Complete(true, true) = false, want true")
	}
}

func TestRevealSteps(t *testing.T) {
	tests := []struct {
		name  string
		shown int
		total int
		want  []int
	}{
		{
			name:  "from zero to base",
			shown: 0,
			total: 5,
			want:  []int{1, 2, 3, 4, 5},
		},
		{
			name:  "from base to one action",
			shown: 5,
			total: 10,
			want:  []int{6, 7, 8, 9, 10},
		},
		{
			name:  "already shown",
			shown: 15,
			total: 15,
			want:  nil,
		},
		{
			name:  "shown above total",
			shown: 15,
			total: 10,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RevealSteps(tt.shown, tt.total)
			if len(got) != len(tt.want) {
				t.Fatalf("RevealSteps(%d, %d) = %v, want %v", tt.shown, tt.total, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("RevealSteps(%d, %d) = %v, want %v", tt.shown, tt.total, got, tt.want)
				}
			}
		})
	}
}

func TestRevealStepsMonotonic(t *testing.T) {
	steps := RevealSteps(0, Max)
	prev := 0
	for _, v := range steps {
		if v < prev {
			t.Fatalf("reveal sequence must be non-decreasing, got %v", steps)
		}
		prev = v
	}
	if prev != Max {
		t.Fatalf("reveal sequence must end at %d, got %d", Max, prev)
	}
}

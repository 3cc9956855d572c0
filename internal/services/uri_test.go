package services

import "testing"

func TestClassifyReference(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  IDType
	}{
		{"track URI", "spotify:track:6fWoFduMpBem73DMLCOh1Z", TypeURI},
		{"playlist URI", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", TypeURI},
		{"unavailable dummy", "spotify:track:unavailable", TypeURI},
		{"user URI", "spotify:user:george", TypeURI},
		{"ext URL", "https://open.spotify.com/track/6fWoFduMpBem73DMLCOh1Z", TypeURLExt},
		{"api URL", "https://api.spotify.com/v1/tracks/6fWoFduMpBem73DMLCOh1Z", TypeURL},
		{"bare ID", "6fWoFduMpBem73DMLCOh1Z", TypeID},
		{"not a uri", "not-a-uri", TypeInvalid},
		{"empty", "", TypeInvalid},
		{"wrong scheme", "deezer:track:6fWoFduMpBem73DMLCOh1Z", TypeInvalid},
		{"unknown kind", "spotify:mixtape:6fWoFduMpBem73DMLCOh1Z", TypeInvalid},
		{"short ID in URI", "spotify:track:abc123", TypeInvalid},
		{"ID with punctuation", "6fWoFduMpBem73DMLCOh1!", TypeInvalid},
		{"too many segments", "spotify:track:6fWoFduMpBem73DMLCOh1Z:extra", TypeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyReference(tt.value); got != tt.want {
				t.Errorf("ClassifyReference(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestReferenceKind(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"spotify:track:6fWoFduMpBem73DMLCOh1Z", "track"},
		{"spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "playlist"},
		{"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "playlist"},
		{"https://api.spotify.com/v1/tracks/6fWoFduMpBem73DMLCOh1Z", "track"},
		{"6fWoFduMpBem73DMLCOh1Z", ""},
		{"garbage", ""},
	}

	for _, tt := range tests {
		if got := ReferenceKind(tt.value); got != tt.want {
			t.Errorf("ReferenceKind(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"spotify:track:6fWoFduMpBem73DMLCOh1Z", "6fWoFduMpBem73DMLCOh1Z"},
		{"6fWoFduMpBem73DMLCOh1Z", "6fWoFduMpBem73DMLCOh1Z"},
		{"https://open.spotify.com/track/6fWoFduMpBem73DMLCOh1Z", "6fWoFduMpBem73DMLCOh1Z"},
		{"https://open.spotify.com/track/6fWoFduMpBem73DMLCOh1Z?si=abc", "6fWoFduMpBem73DMLCOh1Z"},
		{"not-a-uri", ""},
	}

	for _, tt := range tests {
		if got := ExtractID(tt.value); got != tt.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestIsUnavailableURI(t *testing.T) {
	if !IsUnavailableURI("spotify:track:unavailable") {
		t.Error("IsUnavailableURI() = false for the dummy URI")
	}
	if IsUnavailableURI("spotify:track:6fWoFduMpBem73DMLCOh1Z") {
		t.Error("IsUnavailableURI() = true for a real URI")
	}
}

func TestIsArtworkURL(t *testing.T) {
	if !IsArtworkURL("https://i.scdn.co/image/ab67616d0000b273") {
		t.Error("IsArtworkURL() = false for a CDN URL")
	}
	if IsArtworkURL("spotify:track:6fWoFduMpBem73DMLCOh1Z") {
		t.Error("IsArtworkURL() = true for a spotify URI")
	}
}

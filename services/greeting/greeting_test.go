package greeting

import (
	"context"
	"strings"
	"testing"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		stay Stay
		want string
	}{
		{
			name: "property",
			stay: Stay{GuestName: "Ana", PropertyName: "Villa Sol"},
			want: "Dear Ana, thank you for staying at Villa Sol. We hope to welcome you again soon.",
		},
		{
			name: "hotel when property missing",
			stay: Stay{GuestName: "Ana", HotelName: "Seaside"},
			want: "Dear Ana, thank you for staying at Seaside. We hope to welcome you again soon.",
		},
		{
			name: "anonymous",
			stay: Stay{},
			want: "Dear Guest, thank you for staying with us. We hope to welcome you again soon.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fallback(tt.stay); got != tt.want {
				t.Errorf("Fallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewGeminiWithoutKeyIsStatic(t *testing.T) {
	g, err := NewGemini(context.Background(), "")
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if _, ok := g.(Static); !ok {
		t.Fatalf("expected Static greeter, got %T", g)
	}
}

func TestNilGeminiFallsBack(t *testing.T) {
	var g *Gemini
	stay := Stay{GuestName: "Ana", PropertyName: "Villa Sol"}
	if got := g.Greeting(context.Background(), stay); got != Fallback(stay) {
		t.Errorf("got %q", got)
	}
}

func TestClean(t *testing.T) {
	stay := Stay{GuestName: "Ana"}
	if got := Clean("  Thanks Ana!  ", stay); got != "Thanks Ana!" {
		t.Errorf("Clean trimmed = %q", got)
	}
	if got := Clean("<b>hi</b>", stay); got != Fallback(stay) {
		t.Errorf("markup should fall back, got %q", got)
	}
	if got := Clean(strings.Repeat("a", maxGreeting+1), stay); got != Fallback(stay) {
		t.Error("overlong text should fall back")
	}
}

func TestPromptMentionsStay(t *testing.T) {
	p := Prompt(Stay{GuestName: "Ana", PropertyName: "Villa Sol", Nights: 3})
	for _, want := range []string{"Ana", "Villa Sol", "Nights stayed: 3"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

package eval

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEvaluateDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Precedence and associativity
		{"1+2*3", "7"},
		{"(1+2)*3", "9"},
		{"10-2-3", "5"},
		{"100/10/5", "2"},
		{"2^3", "8"},
		{"2^3^2", "64"},
		{"2*3^2", "18"},
		{"1 + 2", "3"},

		// Unary minus
		{"-5", "-5"},
		{"-2^2", "-4"},
		{"2^-1", "0,5"},
		{"5+-2", "3"},
		{"5--2", "7"},
		{"--5", "5"},
		{"2*(-3)", "-6"},

		// Percent
		{"50%", "0,5"},
		{"200+10%", "200,1"},
		{"50%%", "0,005"},
		{"(50+50)%", "1"},
		{"-50%", "-0,5"},
		{"5%^2", "0,0025"},
		{"2^50%", "1,414214"},
		{"12,5%", "0,125"},

		// Locale
		{"0,5+0,25", "0,75"},
		{"2^0,5", "1,414214"},
		{",5*2", "1"},
		{"5,*2", "10"},

		// Rounding and formatting
		{"1/3", "0,333333"},
		{"2/3", "0,666667"},
		{"0,1+0,2", "0,3"},
		{"4/2", "2"},
		{"1/128", "0,007812"},
		{"3/128", "0,023438"},
		{"0-0,0000001", "0"},
		{"10^20", "100000000000000000000"},
		{"123456789*1000", "123456789000"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := e.Evaluate(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Display != tt.want {
				t.Errorf("expected '%s', got '%s'", tt.want, result.Display)
			}
		})
	}
}

func TestEvaluateInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"5+",
		"+",
		"+5",
		"5//2",
		"5**2",
		"5*+2",
		"(1+2",
		"1+2)",
		"()",
		"%",
		"%5",
		"5+%",
		"2(3)",
		"5 5",
		"1,2,3",
		",",
		"abc",
		"__import__('os')",
		"5/0",
		"5/(2-2)",
		"0^-1",
		"(-8)^0,5",
		"10^400",
	}

	e := New()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			result, err := e.Evaluate(input)
			if err == nil {
				t.Fatalf("expected error, got '%s'", result.Display)
			}
			if !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("expected ErrInvalidExpression, got %v", err)
			}
			if result != (Result{}) {
				t.Errorf("expected zero Result on failure, got %+v", result)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	e := New()

	_, err := e.Evaluate("5+")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %T", err)
	}
	if syntaxErr.Pos != 2 {
		t.Errorf("expected offset 2, got %d", syntaxErr.Pos)
	}

	for _, in := range []string{"*5", "5+*3", "(^2)"} {
		_, err = e.Evaluate(in)
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("%s: expected SyntaxError, got %T", in, err)
		}
		if !strings.HasPrefix(syntaxErr.Msg, "missing operand before") {
			t.Errorf("%s: expected missing operand, got '%s'", in, syntaxErr.Msg)
		}
	}

	_, err = e.Evaluate("1/0")
	var mathErr *MathError
	if !errors.As(err, &mathErr) {
		t.Fatalf("expected MathError, got %T", err)
	}
	if mathErr.Op != "/" {
		t.Errorf("expected op '/', got '%s'", mathErr.Op)
	}
}

func TestResultForms(t *testing.T) {
	result, err := New().Evaluate("1/4+200+10%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value != 200.35 {
		t.Errorf("expected 200.35, got %v", result.Value)
	}
	if result.Text != "200.35" {
		t.Errorf("expected buffer text '200.35', got '%s'", result.Text)
	}
	if result.Display != "200,35" {
		t.Errorf("expected display '200,35', got '%s'", result.Display)
	}
}

func TestResultNegativeZero(t *testing.T) {
	for _, in := range []string{"-0,0000004", "0*-1", "-0"} {
		result, err := New().Evaluate(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if result.Value != 0 || math.Signbit(result.Value) {
			t.Errorf("%s: expected positive zero, got %v", in, result.Value)
		}
		if result.Text != "0" {
			t.Errorf("%s: expected '0', got '%s'", in, result.Text)
		}
	}
}

func TestRewritten(t *testing.T) {
	result, err := New().Evaluate("200+10%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rewritten != "(200+(10/100))" {
		t.Errorf("expected '(200+(10/100))', got '%s'", result.Rewritten)
	}
}

func TestResultReevaluates(t *testing.T) {
	e := New()
	first, err := e.Evaluate("1,5*3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Evaluate(first.Text + "+0,5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Display != "5" {
		t.Errorf("expected '5', got '%s'", second.Display)
	}
}

func TestWithPrecision(t *testing.T) {
	tests := []struct {
		precision int
		input     string
		want      string
	}{
		{2, "1/3", "0,33"},
		{0, "2/3", "1"},
		{-1, "2/3", "1"},
		{99, "1/3", "0,333333333333333"},
	}
	for _, tt := range tests {
		e := New(WithPrecision(tt.precision))
		result, err := e.Evaluate(tt.input)
		if err != nil {
			t.Fatalf("precision %d: unexpected error: %v", tt.precision, err)
		}
		if result.Display != tt.want {
			t.Errorf("precision %d: expected '%s', got '%s'", tt.precision, tt.want, result.Display)
		}
	}
}

func TestRound(t *testing.T) {
	e := New()
	tests := []struct {
		in   float64
		want float64
	}{
		{2, 2},
		{-7, -7},
		{0.1234564, 0.123456},
		{0.1234566, 0.123457},
		{0.0078125, 0.007812},
		{0.0234375, 0.023438},
		{-1.0000004, -1},
	}
	for _, tt := range tests {
		if got := e.Round(tt.in); got != tt.want {
			t.Errorf("Round(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{8, "8"},
		{-0.5, "-0.5"},
		{1e21, "1000000000000000000000"},
		{0.000001, "0.000001"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v): expected '%s', got '%s'", tt.in, tt.want, got)
		}
	}
}

func TestNormalizeAndDisplay(t *testing.T) {
	if got := Normalize("1,5+2,25"); got != "1.5+2.25" {
		t.Errorf("expected '1.5+2.25', got '%s'", got)
	}
	if got := ToDisplay("1.5+2.25"); got != "1,5+2,25" {
		t.Errorf("expected '1,5+2,25', got '%s'", got)
	}
}

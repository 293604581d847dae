package validator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reason classifies why a validation passed or failed.
type Reason string

const (
	ReasonOK             Reason = "ok"
	ReasonMethodNotFound Reason = "method_not_found"
	ReasonTokenNotFound  Reason = "token_not_found"
)

// Result is the outcome of validating one method against a token sequence.
// Valid implies every token was found at strictly increasing body offsets.
type Result struct {
	File    string   `json:"file"`
	Method  string   `json:"method"`
	Tokens  []string `json:"tokens"`
	Valid   bool     `json:"valid"`
	Reason  Reason   `json:"reason"`
	Message string   `json:"message"`

	Signature *MethodSignatureMatch `json:"signature,omitempty"`
	Body      *MethodBody           `json:"body,omitempty"`
	Matches   []TokenMatch          `json:"matches,omitempty"`
}

// Validator runs the load, locate, extract and check pipeline.
// It holds only options, so one Validator can serve concurrent calls.
type Validator struct {
	skipComments bool
	readTimeout  time.Duration
	logger       *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithSkipComments masks comments in the extracted body before matching tokens,
// so a token that only appears in a comment does not count.
func WithSkipComments(skip bool) Option {
	return func(v *Validator) {
		v.skipComments = skip
	}
}

// WithReadTimeout bounds the file read. Zero means no timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.readTimeout = d
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reports whether the method named method in the file at path contains
// tokens in order. A missing method or token yields false with a nil error;
// unreadable or unbalanced source yields false with an error wrapping ErrIO or
// ErrMalformedSource.
func Validate(path, method string, tokens []string) (bool, error) {
	res, err := New().Validate(context.Background(), path, method, tokens)
	if err != nil {
		return false, err
	}
	return res.Valid, nil
}

// Validate loads path and validates method against tokens.
func (v *Validator) Validate(ctx context.Context, path, method string, tokens []string) (*Result, error) {
	if err := validateArgs(method, tokens); err != nil {
		return nil, err
	}

	if v.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.readTimeout)
		defer cancel()
	}

	src, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return v.ValidateSource(src, method, tokens)
}

// ValidateSource validates method against tokens in an already loaded source.
func (v *Validator) ValidateSource(src *Source, method string, tokens []string) (*Result, error) {
	if err := validateArgs(method, tokens); err != nil {
		return nil, err
	}

	res := &Result{
		File:   src.Path,
		Method: method,
		Tokens: tokens,
	}

	sig := Locate(src, method)
	if !sig.Found {
		res.Reason = ReasonMethodNotFound
		res.Message = fmt.Sprintf("method %q not found in %s", method, src.Path)
		v.logger.Debug("method not found", zap.String("file", src.Path), zap.String("method", method))
		return res, nil
	}
	res.Signature = &sig

	body, err := Extract(src, sig.BraceOffset)
	if err != nil {
		return nil, err
	}
	res.Body = body

	text := body.Text
	if v.skipComments {
		text = maskComments(text)
	}

	seq := CheckSequence(text, tokens)
	res.Matches = seq.Matches
	if !seq.OK() {
		missing := tokens[seq.MissingIndex]
		pos := src.Position(body.Start + seq.SearchFrom)
		res.Reason = ReasonTokenNotFound
		res.Message = fmt.Sprintf("token %q (#%d) not found in %s after line %d column %d",
			missing, seq.MissingIndex+1, method, pos.Line, pos.Column)
		v.logger.Debug("token sequence mismatch",
			zap.String("file", src.Path),
			zap.String("method", method),
			zap.String("token", missing),
			zap.Int("search_from", seq.SearchFrom))
		return res, nil
	}

	res.Valid = true
	res.Reason = ReasonOK
	res.Message = fmt.Sprintf("%s contains all %d tokens in order", method, len(tokens))
	v.logger.Debug("method validated",
		zap.String("file", src.Path),
		zap.String("method", method),
		zap.Int("body_start_line", body.StartLine),
		zap.Int("body_end_line", body.EndLine))
	return res, nil
}

// ExtractMethod locates method in the file at path and returns its signature
// and body. A missing method is reported as Found == false with a nil body.
func (v *Validator) ExtractMethod(ctx context.Context, path, method string) (MethodSignatureMatch, *MethodBody, error) {
	if err := validateMethodName(method); err != nil {
		return MethodSignatureMatch{}, nil, err
	}
	if v.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.readTimeout)
		defer cancel()
	}

	src, err := Load(ctx, path)
	if err != nil {
		return MethodSignatureMatch{}, nil, err
	}
	sig := Locate(src, method)
	if !sig.Found {
		return sig, nil, nil
	}
	body, err := Extract(src, sig.BraceOffset)
	if err != nil {
		return sig, nil, err
	}
	return sig, body, nil
}

func validateArgs(method string, tokens []string) error {
	if err := validateMethodName(method); err != nil {
		return err
	}
	for i, tok := range tokens {
		if tok == "" {
			return fmt.Errorf("%w: token #%d is empty", ErrInvalidArgument, i+1)
		}
	}
	return nil
}

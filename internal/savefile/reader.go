package savefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dynastysync/internal/logging"
	"dynastysync/internal/sidecar"
)

const parseRemediation = "the extraction tool returned unreadable output; update it with `dynastysync sidecar update` and retry"

// Runner is the slice of the gateway the reader needs.
type Runner interface {
	Run(ctx context.Context, subcommand sidecar.Subcommand, filePath string) sidecar.Result
}

// Reader validates and extracts save files through a Runner.
type Reader struct {
	runner Runner
	logger *slog.Logger
}

// NewReader constructs a Reader. A nil logger discards output.
func NewReader(runner Runner, logger *slog.Logger) *Reader {
	return &Reader{runner: runner, logger: logging.NewComponentLogger(logger, "savefile")}
}

type validatePayload struct {
	Valid             bool    `json:"valid"`
	GameYear          *int    `json:"gameYear"`
	YearShort         *int    `json:"yearShort"`
	Supported         bool    `json:"supported"`
	UnsupportedReason *string `json:"unsupportedReason"`
	Error             *string `json:"error"`
	Message           *string `json:"message"`
}

type extractPayload struct {
	GameYear   *int           `json:"gameYear"`
	Games      []RawGame      `json:"games"`
	Players    []RawPlayer    `json:"players"`
	DraftPicks []RawDraftPick `json:"draftPicks"`
	Error      *string        `json:"error"`
	Message    *string        `json:"message"`
}

// Validate asks the tool whether filePath is a save it can read.
func (r *Reader) Validate(ctx context.Context, filePath string) ValidationVerdict {
	if failure := checkReadable(filePath); failure != nil {
		return ValidationVerdict{Failure: failure}
	}

	res := r.runner.Run(ctx, sidecar.SubcommandValidate, filePath)
	if res.Failed() {
		return ValidationVerdict{Failure: res.Failure}
	}

	var payload validatePayload
	if err := decode(res.Output, &payload); err != nil {
		r.logParseFailure("validate", filePath, err)
		return ValidationVerdict{Failure: &sidecar.Failure{Kind: sidecar.KindParse, Message: parseRemediation}}
	}
	if failure := toolFailure(payload.Error, payload.Message); failure != nil {
		return ValidationVerdict{Failure: failure}
	}

	verdict := ValidationVerdict{
		IsValid:         payload.Valid,
		IsSupported:     payload.Supported,
		DetectedVersion: versionLabel(payload.GameYear, payload.YearShort),
	}
	if payload.GameYear != nil {
		verdict.GameYear = *payload.GameYear
	}
	if payload.UnsupportedReason != nil {
		verdict.UnsupportedReason = *payload.UnsupportedReason
	}
	r.logger.Info("save validated",
		logging.String(logging.FieldSavePath, filePath),
		logging.Bool("valid", verdict.IsValid),
		logging.Bool("supported", verdict.IsSupported),
		logging.String("detected_version", verdict.DetectedVersion),
		logging.String(logging.FieldEventType, "save_validated"),
	)
	return verdict
}

// Extract pulls raw records out of filePath.
func (r *Reader) Extract(ctx context.Context, filePath string) ExtractionResult {
	if failure := checkReadable(filePath); failure != nil {
		return emptyExtraction(failure)
	}

	res := r.runner.Run(ctx, sidecar.SubcommandExtract, filePath)
	if res.Failed() {
		return emptyExtraction(res.Failure)
	}

	var payload extractPayload
	if err := decode(res.Output, &payload); err != nil {
		r.logParseFailure("extract", filePath, err)
		return emptyExtraction(&sidecar.Failure{Kind: sidecar.KindParse, Message: parseRemediation})
	}
	if failure := toolFailure(payload.Error, payload.Message); failure != nil {
		return emptyExtraction(failure)
	}

	result := ExtractionResult{
		Games:      nonNil(payload.Games),
		Players:    nonNil(payload.Players),
		DraftPicks: nonNil(payload.DraftPicks),
	}
	if payload.GameYear != nil {
		result.DetectedYear = *payload.GameYear
	}
	r.logger.Info("save extracted",
		logging.String(logging.FieldSavePath, filePath),
		logging.Int("detected_year", result.DetectedYear),
		logging.Int("games", len(result.Games)),
		logging.Int("players", len(result.Players)),
		logging.Int("draft_picks", len(result.DraftPicks)),
		logging.String(logging.FieldEventType, "save_extracted"),
	)
	return result
}

func (r *Reader) logParseFailure(subcommand, filePath string, err error) {
	logging.WarnWithContext(r.logger, "sidecar payload unreadable", "sidecar_parse_failed",
		logging.String("subcommand", subcommand),
		logging.String(logging.FieldSavePath, filePath),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "update the extraction tool"),
		logging.String(logging.FieldImpact, "save was not synced"),
	)
}

func checkReadable(filePath string) *sidecar.Failure {
	if strings.TrimSpace(filePath) == "" {
		return &sidecar.Failure{Kind: sidecar.KindFileNotFound, Message: "no save file selected"}
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return &sidecar.Failure{Kind: sidecar.KindFileNotFound, Message: fmt.Sprintf("save file %s is not readable: %v", filePath, err)}
	}
	if info.IsDir() {
		return &sidecar.Failure{Kind: sidecar.KindFileNotFound, Message: fmt.Sprintf("%s is a directory, not a save file", filePath)}
	}
	return nil
}

func decode(output string, dst any) error {
	output = strings.TrimSpace(output)
	if output == "" {
		return errors.New("empty output")
	}
	return json.Unmarshal([]byte(output), dst)
}

func toolFailure(kind, message *string) *sidecar.Failure {
	if kind == nil || strings.TrimSpace(*kind) == "" {
		return nil
	}
	f := &sidecar.Failure{Kind: *kind}
	if message != nil {
		f.Message = *message
	}
	return f
}

func versionLabel(gameYear, yearShort *int) string {
	switch {
	case yearShort != nil:
		return fmt.Sprintf("College Football %02d", *yearShort)
	case gameYear != nil:
		return fmt.Sprintf("%d", *gameYear)
	default:
		return ""
	}
}

func emptyExtraction(failure *sidecar.Failure) ExtractionResult {
	return ExtractionResult{
		Games:      []RawGame{},
		Players:    []RawPlayer{},
		DraftPicks: []RawDraftPick{},
		Failure:    failure,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

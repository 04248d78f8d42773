package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/providers/genai"
)

// VideoService is the slice of the genai client the storyboard consumes for
// video submission.
type VideoService interface {
	StartVideoJob(ctx context.Context, req genai.VideoJobRequest) (*genai.Operation, error)
}

// Keyframe pairs a generated advertising still with its scene description.
type Keyframe struct {
	Image domain.ImagePayload
	Scene string
}

// Per-subtype scene direction for the video request: camera movement and
// environment, always closed by the reference-fidelity directive.
var sceneDirections = []struct {
	match       string
	camera      string
	environment string
}{
	{"product", "slow dolly-in on the product", "a minimal studio set with soft directional light"},
	{"launch", "sweeping crane shot rising over the scene", "a modern urban plaza at dusk"},
	{"social", "handheld push-in with subtle sway", "a bright lifestyle interior"},
	{"story", "smooth lateral tracking shot", "an atmospheric real-world location matching the brand mood"},
}

const referenceFidelityDirective = "The opening frame must match the reference image with pixel-level fidelity."

// Storyboard sequences the multi-stage ad workflow: voiceover script, then
// keyframes, then a single confirmed video job.
type Storyboard struct {
	text   branding.TextService
	images ImageService
	video  VideoService
	poller *JobPoller
	logger *infra.Logger
}

// NewStoryboard constructs a Storyboard orchestrator.
func NewStoryboard(text branding.TextService, images ImageService, video VideoService, poller *JobPoller, logger *infra.Logger) *Storyboard {
	return &Storyboard{text: text, images: images, video: video, poller: poller, logger: logger}
}

// Script generates a 15-20 second voiceover script from the brand
// specification and the conversation so far. The user may edit the result
// before the video stage; the edited text is what gets embedded.
func (s *Storyboard) Script(ctx context.Context, tok credentials.Token, brand *domain.BrandSpecification, transcript string) (string, error) {
	if err := tok.Require(); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"Write a voiceover script for a 15-20 second advertisement for the brand %q. "+
			"Brand essence: %s. Keywords: %s.\n"+
			"Conversation so far:\n%s\n"+
			"Respond with the spoken script only, no stage directions.",
		brand.Name, brand.Essence, strings.Join(brand.Keywords, ", "), strings.TrimSpace(transcript))
	script, err := s.text.GenerateText(ctx, genai.TextRequest{Prompt: prompt, Temperature: 0.7})
	if err != nil {
		return "", fmt.Errorf("generate script: %w", err)
	}
	return strings.TrimSpace(script), nil
}

const keyframePlanSchema = `{
  "type": "OBJECT",
  "properties": {
    "scenes": {"type": "ARRAY", "items": {"type": "STRING"}}
  },
  "required": ["scenes"]
}`

type keyframePlan struct {
	Scenes []string `json:"scenes"`
}

// Keyframes plans 2-3 scenes for the script and generates one advertising
// still per scene in parallel, draft-fan-out style: failed stills are
// omitted, zero survivors is domain.ErrGenerationFailed.
func (s *Storyboard) Keyframes(ctx context.Context, tok credentials.Token, brand *domain.BrandSpecification, inspirations []domain.InspirationCue, script, subtype string) ([]Keyframe, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}

	planPrompt := fmt.Sprintf(
		"Plan 2 to 3 keyframe scenes for an advertisement with this voiceover script:\n%s\n"+
			"Each scene is one sentence describing the shot.", script)
	raw, err := s.text.GenerateText(ctx, genai.TextRequest{
		Prompt:      planPrompt,
		Schema:      json.RawMessage(keyframePlanSchema),
		Temperature: 0.6,
	})
	if err != nil {
		return nil, fmt.Errorf("plan keyframes: %w", err)
	}
	var plan keyframePlan
	if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableOutput, err)
	}
	scenes := plan.Scenes
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: plan produced no scenes", domain.ErrGenerationFailed)
	}
	if len(scenes) > 3 {
		scenes = scenes[:3]
	}

	base := branding.Compose(branding.ComposeInput{
		Brand:        brand,
		Inspirations: inspirations,
		Category:     domain.CategoryVideo,
		Subtype:      subtype,
	})
	refs := referenceImages(brand)

	results := make([]*genai.Image, len(scenes))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, scene := range scenes {
		i, scene := i, scene
		eg.Go(func() error {
			img, err := s.images.GenerateImage(egCtx, genai.ImageRequest{
				Prompt:     base + "\nScene: " + scene,
				References: refs,
			})
			if err != nil {
				if s.logger != nil {
					s.logger.Warn().Err(err).Int("scene", i).Msg("pipeline: keyframe generation failed")
				}
				return nil
			}
			results[i] = img
			return nil
		})
	}
	_ = eg.Wait()

	var frames []Keyframe
	for i, img := range results {
		if img != nil && len(img.Data) > 0 {
			frames = append(frames, Keyframe{
				Image: domain.ImagePayload{Data: img.Data, MIME: img.MIME},
				Scene: scenes[i],
			})
		}
	}
	if len(frames) == 0 {
		return nil, domain.ErrGenerationFailed
	}
	return frames, nil
}

// ProduceVideo submits the confirmed video job seeded by the primary
// keyframe and waits for it through the poller. The script argument is
// whatever the user last saw and approved — edits made after the script
// stage are embedded here, never the original.
func (s *Storyboard) ProduceVideo(ctx context.Context, tok credentials.Token, brand *domain.BrandSpecification, script string, primary Keyframe, subtype string) (*domain.GeneratedAsset, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}

	camera, environment := sceneDirection(subtype)
	prompt := fmt.Sprintf(
		"A 15-20 second advertisement for the brand %q.\n"+
			"Voiceover script: %s\n"+
			"Opening scene: %s\n"+
			"Camera: %s. Environment: %s.\n%s",
		brand.Name, script, primary.Scene, camera, environment, referenceFidelityDirective)

	op, err := s.video.StartVideoJob(ctx, genai.VideoJobRequest{
		Prompt:      prompt,
		Image:       &genai.Image{Data: primary.Image.Data, MIME: primary.Image.MIME},
		AspectRatio: "16:9",
		Resolution:  "1080p",
		Count:       1,
	})
	if err != nil {
		return nil, fmt.Errorf("submit video job: %w", err)
	}

	uri, err := s.poller.Await(ctx, op)
	if err != nil {
		return nil, err
	}

	asset := &domain.GeneratedAsset{
		ID:         uuid.NewString(),
		Category:   domain.CategoryVideo,
		Subtype:    subtype,
		Kind:       domain.AssetKindVideo,
		URL:        uri,
		Provenance: fmt.Sprintf("ad video for %q", brand.Name),
		Final:      true,
		CreatedAt:  time.Now().UTC(),
	}
	if s.logger != nil {
		s.logger.Info().Str("asset", asset.ID).Msg("pipeline: ad video completed")
	}
	return asset, nil
}

func sceneDirection(subtype string) (camera, environment string) {
	normalized := branding.NormalizeSubtype(subtype)
	for _, d := range sceneDirections {
		if strings.Contains(normalized, d.match) {
			return d.camera, d.environment
		}
	}
	return "steady medium shot with a slow push-in", "a setting that matches the brand essence"
}

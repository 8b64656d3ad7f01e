// rekognition.go - Image recognition through AWS Rekognition

package nutrition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// labelDetector is the slice of the Rekognition client we use.
type labelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Rekognition recognizes food with AWS Rekognition DetectLabels.
type Rekognition struct {
	client labelDetector
}

// genericLabels describe "some food" rather than which food, so they are skipped.
var genericLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "plant": true, "produce": true,
	"lunch": true, "dinner": true, "breakfast": true, "plate": true, "platter": true,
}

func NewRekognition(ctx context.Context, region string) (*Rekognition, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Rekognition{client: rekognition.NewFromConfig(cfg)}, nil
}

func (r *Rekognition) Name() string { return "rekognition" }

func (r *Rekognition) Recognize(ctx context.Context, image []byte) (Label, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(60),
	})
	if err != nil {
		return Label{}, fmt.Errorf("%w: rekognition: %v", ErrUpstream, err)
	}
	for _, l := range out.Labels {
		name := aws.ToString(l.Name)
		if name == "" || genericLabels[strings.ToLower(name)] {
			continue
		}
		return Label{Name: name, Confidence: float64(aws.ToFloat32(l.Confidence)) / 100}, nil
	}
	return Label{}, ErrNotFound
}

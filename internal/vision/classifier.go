// Package vision runs the MobileNetV2 plant-disease model via ONNX Runtime
// and maps outputs to dataset labels such as "Tomato___Early_blight".
package vision

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/image/draw"
)

// ImageNet normalization (standard for torchvision models).
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

const (
	width  = 224
	height = 224
)

// Prediction is the top-1 classification outcome. Confidence is a softmax
// probability in [0,1].
type Prediction struct {
	Label      string  `json:"label"`
	Index      int     `json:"index"`
	Confidence float64 `json:"confidence"`
}

// Classifier runs MobileNetV2 ONNX inference over leaf images.
type Classifier struct {
	mu sync.Mutex

	modelPath  string
	labelsPath string
	libPath    string

	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	labels  []string
	inited  bool
}

// NewClassifier creates a classifier that lazily loads the ONNX model and
// the labels file (one dataset label per line, index = line number).
func NewClassifier(modelPath, labelsPath, onnxLibPath string) *Classifier {
	return &Classifier{
		modelPath:  modelPath,
		labelsPath: labelsPath,
		libPath:    onnxLibPath,
	}
}

// initOnce loads the ONNX shared library, environment, labels, and session.
func (c *Classifier) initOnce() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inited {
		return nil
	}

	if c.libPath != "" {
		ort.SetSharedLibraryPath(c.libPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx init environment: %w", err)
	}

	labels, err := loadLabels(c.labelsPath)
	if err != nil {
		return fmt.Errorf("load labels: %w", err)
	}
	c.labels = labels

	inputs, outputs, err := ort.GetInputOutputInfo(c.modelPath)
	if err != nil {
		return fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("onnx model has no inputs or outputs")
	}

	inputTensor, err := ort.NewEmptyTensor[float32](inputs[0].Dimensions)
	if err != nil {
		return fmt.Errorf("onnx new input tensor: %w", err)
	}
	c.input = inputTensor

	outputTensor, err := ort.NewEmptyTensor[float32](outputs[0].Dimensions)
	if err != nil {
		inputTensor.Destroy()
		return fmt.Errorf("onnx new output tensor: %w", err)
	}
	c.output = outputTensor

	inputNames := make([]string, len(inputs))
	for i := range inputs {
		inputNames[i] = inputs[i].Name
	}
	outputNames := make([]string, len(outputs))
	for i := range outputs {
		outputNames[i] = outputs[i].Name
	}

	session, err := ort.NewAdvancedSession(c.modelPath, inputNames, outputNames,
		[]ort.Value{c.input}, []ort.Value{c.output}, nil)
	if err != nil {
		outputTensor.Destroy()
		inputTensor.Destroy()
		return fmt.Errorf("onnx new session: %w", err)
	}
	c.session = session
	c.inited = true
	return nil
}

func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		labels = append(labels, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// Predict decodes the image, preprocesses it for MobileNetV2, runs inference,
// and returns the top class with its softmax probability.
func (c *Classifier) Predict(imageData []byte) (Prediction, error) {
	if err := c.initOnce(); err != nil {
		return Prediction{}, err
	}

	img, err := decodeImage(imageData)
	if err != nil {
		return Prediction{}, fmt.Errorf("decode image: %w", err)
	}

	// Resize to 224x224, RGB, NCHW, ImageNet-normalized float32.
	inputData := preprocess(img)
	if len(inputData) == 0 {
		return Prediction{}, fmt.Errorf("preprocess failed")
	}

	c.mu.Lock()
	inData := c.input.GetData()
	if len(inData) < len(inputData) {
		c.mu.Unlock()
		return Prediction{}, fmt.Errorf("input tensor size %d < preprocessed %d", len(inData), len(inputData))
	}
	copy(inData, inputData)
	err = c.session.Run()
	c.mu.Unlock()
	if err != nil {
		return Prediction{}, fmt.Errorf("onnx run: %w", err)
	}

	outData := c.output.GetData()
	if len(outData) == 0 {
		return Prediction{}, fmt.Errorf("empty model output")
	}

	probs := softmax(outData)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	label := ""
	if best < len(c.labels) {
		label = c.labels[best]
	}
	return Prediction{
		Label:      label,
		Index:      best,
		Confidence: probs[best],
	}, nil
}

// softmax converts logits to probabilities, shifted by the max for stability.
func softmax(logits []float32) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - max))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// image.Decode may not recognize some encodings; try JPEG and PNG directly.
		img, err = jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			img, err = png.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// preprocess resizes img to 224x224, converts to RGB, NCHW layout, float32
// with ImageNet normalization.
func preprocess(img image.Image) []float32 {
	bounds := img.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	// NCHW: [1, 3, 224, 224].
	out := make([]float32, 1*3*height*width)
	const size = width * height

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			px := dst.RGBAAt(x, y)
			r, g, b := float32(px.R)/255.0, float32(px.G)/255.0, float32(px.B)/255.0
			out[0*size+idx] = (r - imagenetMean[0]) / imagenetStd[0]
			out[1*size+idx] = (g - imagenetMean[1]) / imagenetStd[1]
			out[2*size+idx] = (b - imagenetMean[2]) / imagenetStd[2]
		}
	}
	return out
}

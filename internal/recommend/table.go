package recommend

// Entry pairs a canonical disease name with its ordered advice list.
type Entry struct {
	Disease         string   `json:"disease"`
	Recommendations []string `json:"recommendations"`
}

type record struct {
	key   string
	entry Entry
}

// records is the static lookup table, loaded once at process start. Slice
// order matters: the substring pass in Resolve scans it top to bottom and
// returns the first hit.
var records = []record{
	{"Bacterial Spot", Entry{
		Disease: "Bacterial Spot",
		Recommendations: []string{
			"Remove and destroy infected leaves immediately",
			"Apply copper-based bactericides during cool, dry weather",
			"Improve air circulation by proper plant spacing",
			"Avoid overhead watering to reduce leaf wetness",
			"Rotate crops with non-susceptible plants",
		},
	}},
	{"Early Blight", Entry{
		Disease: "Early Blight",
		Recommendations: []string{
			"Remove lower infected leaves to prevent spread",
			"Apply organic fungicides like neem oil or copper spray",
			"Mulch around plants to prevent soil splash",
			"Ensure proper plant spacing for air circulation",
			"Water at the base of plants, avoid wetting foliage",
		},
	}},
	{"Late Blight", Entry{
		Disease: "Late Blight",
		Recommendations: []string{
			"Remove and destroy all infected plant material immediately",
			"Apply fungicides containing chlorothalonil or copper",
			"Improve drainage to reduce moisture",
			"Avoid working with plants when wet",
			"Consider resistant varieties for future planting",
		},
	}},
	{"Leaf Mold", Entry{
		Disease: "Leaf Mold",
		Recommendations: []string{
			"Increase ventilation in greenhouse or growing area",
			"Reduce humidity levels below 85%",
			"Remove infected leaves promptly",
			"Apply sulfur-based fungicides if needed",
			"Space plants properly for air circulation",
		},
	}},
	{"Septoria Leaf Spot", Entry{
		Disease: "Septoria Leaf Spot",
		Recommendations: []string{
			"Remove and destroy infected leaves",
			"Apply organic fungicides like copper spray",
			"Mulch to prevent soil-borne spore splash",
			"Rotate crops annually",
			"Water early in the day to allow foliage to dry",
		},
	}},
	{"Spider Mites", Entry{
		Disease: "Spider Mites (Two-spotted)",
		Recommendations: []string{
			"Spray plants with strong water stream to dislodge mites",
			"Apply neem oil or insecticidal soap",
			"Introduce beneficial predatory mites",
			"Increase humidity around plants",
			"Remove heavily infested leaves",
		},
	}},
	{"Target Spot", Entry{
		Disease: "Target Spot",
		Recommendations: []string{
			"Remove infected plant debris",
			"Apply copper-based fungicides",
			"Improve air circulation through pruning",
			"Avoid overhead irrigation",
			"Practice crop rotation",
		},
	}},
	{"Yellow Leaf Curl Virus", Entry{
		Disease: "Yellow Leaf Curl Virus",
		Recommendations: []string{
			"Remove and destroy infected plants immediately",
			"Control whitefly populations with insecticidal soap",
			"Use reflective mulches to deter whiteflies",
			"Plant virus-resistant varieties",
			"Remove weeds that can host the virus",
		},
	}},
	{"Mosaic Virus", Entry{
		Disease: "Mosaic Virus",
		Recommendations: []string{
			"Remove and destroy infected plants",
			"Control aphid populations that spread the virus",
			"Disinfect tools between plants",
			"Plant resistant varieties",
			"Remove weeds that can harbor the virus",
		},
	}},
	{"Powdery Mildew", Entry{
		Disease: "Powdery Mildew",
		Recommendations: []string{
			"Apply organic fungicides like sulfur or potassium bicarbonate",
			"Improve air circulation around plants",
			"Remove infected leaves",
			"Avoid overhead watering",
			"Plant in full sun locations when possible",
		},
	}},
}

var defaultAdvice = []string{
	"Isolate affected plants to prevent spread",
	"Remove and destroy visibly infected plant parts",
	"Improve air circulation and reduce humidity",
	"Avoid overhead watering",
	"Consider consulting with a local agricultural extension office for specific treatment",
}

var healthyAdvice = []string{
	"Continue regular watering schedule",
	"Maintain proper fertilization routine",
	"Monitor plants regularly for early disease detection",
	"Ensure adequate sunlight exposure",
	"Keep the growing area clean and free of debris",
}

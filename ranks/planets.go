package ranks

// Planets is the default chain, smallest first.
func Planets() []Def {
	return []Def{
		{Name: "asteroid", Label: "小惑星", DisplaySize: 44, Score: 1, Image: "assets/asteroid.png"},
		{Name: "moon", Label: "月", DisplaySize: 57, Score: 3, Image: "assets/moon.png"},
		{Name: "mercury", Label: "水星", DisplaySize: 84, Score: 6, Image: "assets/mercury.png"},
		{Name: "mars", Label: "火星", DisplaySize: 92, Score: 10, Image: "assets/mars.png"},
		{Name: "venus", Label: "金星", DisplaySize: 105, Score: 15, Image: "assets/venus.png"},
		{Name: "earth", Label: "地球", DisplaySize: 134, Score: 21, Image: "assets/earth.png"},
		{Name: "neptune", Label: "海王星", DisplaySize: 172, Score: 28, Image: "assets/neptune.png"},
		{Name: "uranus", Label: "天王星", DisplaySize: 210, Score: 36, Image: "assets/uranus.png"},
		{Name: "saturn", Label: "土星", DisplaySize: 237, Score: 45, Image: "assets/saturn.png"},
		{Name: "jupiter", Label: "木星", DisplaySize: 294, Score: 55, Image: "assets/jupiter.png"},
		{Name: "sun", Label: "太陽", DisplaySize: 347, Score: 66, Image: "assets/sun.png"},
	}
}

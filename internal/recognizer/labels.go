package recognizer

// letterForClass maps the classifier's lowercase class labels to the
// displayable letters of the recognition alphabet.
var letterForClass = map[string]string{
	"a": "A", "b": "B", "c": "C", "d": "D", "e": "E", "f": "F",
	"g": "G", "h": "H", "i": "I", "j": "J", "k": "K", "l": "L",
	"m": "M", "n": "N", "o": "O", "p": "P", "q": "Q", "r": "R",
	"s": "S", "t": "T", "u": "U", "v": "V", "w": "W", "x": "X",
	"y": "Y", "z": "Z",
}

// Letter maps a class label to its displayable uppercase letter. Labels
// outside the alphabet yield an empty string.
func Letter(class string) string {
	return letterForClass[class]
}

package system

// Submarket is a logical price zone (e.g. SE/CO, S, NE, N in the Brazilian
// system).
type Submarket struct {
	Id      string
	Name    string
	Code    string
	Country string
}

// NewSubmarket validates and constructs a Submarket.
func NewSubmarket(id, name, code, country string) (Submarket, error) {
	if id == "" {
		return Submarket{}, invalid("Submarket", "Id", id, "non-empty")
	}
	if code == "" {
		return Submarket{}, invalid("Submarket", "Code", code, "non-empty")
	}
	return Submarket{Id: id, Name: name, Code: code, Country: country}, nil
}

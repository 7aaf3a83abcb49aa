package units

import "gonum.org/v1/gonum/unit"

type baseUnit struct {
	name    string
	symbol  string
	scale   float64
	dims    unit.Dimensions
	aliases []string
}

// baseUnits are the SI base units the rest of the vocabulary is built on.
// The gram carries the mass dimension so that kilogram is a prefixed gram.
var baseUnits = []baseUnit{
	{"meter", "m", 1, unit.Dimensions{unit.LengthDim: 1}, []string{"metre"}},
	{"gram", "g", 1e-3, unit.Dimensions{unit.MassDim: 1}, []string{"gramme"}},
	{"second", "s", 1, unit.Dimensions{unit.TimeDim: 1}, []string{"sec"}},
	{"kelvin", "K", 1, unit.Dimensions{unit.TemperatureDim: 1}, nil},
	{"ampere", "A", 1, unit.Dimensions{unit.CurrentDim: 1}, []string{"amp"}},
	{"mole", "mol", 1, unit.Dimensions{unit.MoleDim: 1}, nil},
	{"candela", "cd", 1, unit.Dimensions{unit.LuminousIntensityDim: 1}, nil},
	{"radian", "rad", 1, unit.Dimensions{}, nil},
}

// siBase names the base unit used for each dimension by ToBaseUnits.
var siBase = map[unit.Dimension]struct {
	name   string
	prefix string
}{
	unit.LengthDim:            {"meter", ""},
	unit.MassDim:              {"gram", "kilo"},
	unit.TimeDim:              {"second", ""},
	unit.TemperatureDim:       {"kelvin", ""},
	unit.CurrentDim:           {"ampere", ""},
	unit.MoleDim:              {"mole", ""},
	unit.LuminousIntensityDim: {"candela", ""},
}

// builtinDefinitions extend the base units. Order matters: every
// definition may only refer to names defined above it.
var builtinDefinitions = []string{
	// time and angle
	"minute = 60 * second = min",
	"hour = 60 * minute = h = hr",
	"day = 24 * hour = d",
	"degree = 0.017453292519943295 * radian = deg",
	"revolution = 6.283185307179586 * radian = rev = turn",
	"percent = 0.01 = %",
	"hertz = 1 / second = Hz",
	"revolutions_per_minute = revolution / minute = rpm",

	// SI derived
	"newton = kilogram * meter / second ** 2 = N",
	"pascal = newton / meter ** 2 = Pa",
	"joule = newton * meter = J",
	"watt = joule / second = W",
	"liter = decimeter ** 3 = l = L = litre",
	"bar = 100000 * pascal = bar",
	"atmosphere = 101325 * pascal = atm = atmospheres",
	"calorie = 4.184 * joule = cal",

	// US customary
	"inch = 0.0254 * meter = in = inches",
	"foot = 12 * inch = ft = feet",
	"yard = 3 * foot = yd",
	"mile = 5280 * foot = mi",
	"pound = 0.45359237 * kilogram = lb",
	"pound_force = 4.4482216152605 * newton = lbf = force_pound",
	"slug = pound_force * second ** 2 / foot = slug",
	"psi = pound_force / inch ** 2 = psi = pound_force_per_square_inch",
	"psf = pound_force / foot ** 2 = psf = pound_force_per_square_foot",
	"gallon = 231 * inch ** 3 = gal",
	"ton = 2000 * pound = _ = short_ton",
	"tonne = 1000 * kilogram = t = metric_ton",
	"BTU = 1055.05585262 * joule = Btu = british_thermal_unit",
	"horsepower = 550 * foot * pound_force / second = hp",

	// temperature scales
	"degree_Celsius = kelvin; offset: 273.15 = °C = celsius = degC",
	"degree_Fahrenheit = 5 / 9 * kelvin; offset: 255.37222222222223 = °F = fahrenheit = degF",
	"degree_Rankine = 5 / 9 * kelvin = °R = rankine = degR",
}

// engineeringDefinitions are the structural engineering shorthands added by
// RegisterEngineeringUnits.
var engineeringDefinitions = []string{
	"ksi = 1000 * psi = ksi",
	"ksf = 1000 * pound_force / foot ** 2 = ksf",
	"pcf = pound / foot ** 3 = pcf",
	"plf = pound_force / foot = plf",
	"klf = 1000 * pound_force / foot = klf",
	"kip = 1000 * pound_force = kip",
}

// commonUnits lists familiar units per dimensionality for CompatibleUnits.
var commonUnits = map[string][]string{
	"[length]":                             {"meter", "foot", "inch", "millimeter", "centimeter", "yard", "mile"},
	"[mass]":                               {"kilogram", "gram", "pound", "ton", "tonne", "slug"},
	"[time]":                               {"second", "minute", "hour", "day"},
	"[temperature]":                        {"kelvin", "degC", "degF", "degR"},
	"[length] ** 2":                        {"meter**2", "foot**2", "inch**2", "centimeter**2"},
	"[length] ** 3":                        {"meter**3", "foot**3", "inch**3", "gallon", "liter"},
	"[mass] / [length] ** 3":               {"kilogram/meter**3", "pcf", "gram/centimeter**3"},
	"[mass] / [length] / [time] ** 2":      {"pascal", "psi", "ksi", "MPa", "GPa", "bar", "ksf"},
	"[length] * [mass] / [time] ** 2":      {"newton", "pound_force", "kip", "kilonewton"},
	"[mass] / [time] ** 2":                 {"plf", "klf", "newton/meter", "kilonewton/meter"},
	"[length] ** 2 * [mass] / [time] ** 2": {"joule", "kilojoule", "BTU", "calorie", "foot*pound_force"},
	"[length] ** 2 * [mass] / [time] ** 3": {"watt", "kilowatt", "horsepower", "BTU/hour"},
	"[length] / [time]":                    {"meter/second", "foot/second", "kilometer/hour", "mile/hour"},
	"1 / [time]":                           {"hertz", "rpm", "radian/second"},
}

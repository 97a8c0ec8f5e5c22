package materials

var defaults = []Material{
	// Atmospheric gases.
	{ID: "nitrogen", Name: "Nitrogen", Formula: "N2", Category: "gas", MolarMass: 28.0134, Reactivity: "inert"},
	{ID: "oxygen", Name: "Oxygen", Formula: "O2", Category: "gas", MolarMass: 31.9988, Reactivity: "oxidizer"},
	{ID: "carbon_dioxide", Name: "Carbon Dioxide", Formula: "CO2", Category: "gas", MolarMass: 44.0095, Reactivity: "low"},
	{ID: "argon", Name: "Argon", Formula: "Ar", Category: "gas", MolarMass: 39.948, Reactivity: "inert"},
	{ID: "water_vapor", Name: "Water Vapor", Formula: "H2O", Category: "gas", MolarMass: 18.01528, Reactivity: "low"},
	{ID: "methane", Name: "Methane", Formula: "CH4", Category: "gas", MolarMass: 16.0425, Reactivity: "flammable"},
	{ID: "hydrogen", Name: "Hydrogen", Formula: "H2", Category: "gas", MolarMass: 2.01588, Reactivity: "flammable"},
	{ID: "helium", Name: "Helium", Formula: "He", Category: "gas", MolarMass: 4.002602, Reactivity: "inert"},
	{ID: "sulfur_dioxide", Name: "Sulfur Dioxide", Formula: "SO2", Category: "gas", MolarMass: 64.066, Reactivity: "corrosive"},
	{ID: "hydrogen_sulfide", Name: "Hydrogen Sulfide", Formula: "H2S", Category: "gas", MolarMass: 34.081, Reactivity: "toxic"},
	{ID: "nitrous_oxide", Name: "Nitrous Oxide", Formula: "N2O", Category: "gas", MolarMass: 44.013, Reactivity: "oxidizer"},
	{ID: "ammonia", Name: "Ammonia", Formula: "NH3", Category: "gas", MolarMass: 17.031, Reactivity: "corrosive"},
	{ID: "carbon_monoxide", Name: "Carbon Monoxide", Formula: "CO", Category: "gas", MolarMass: 28.010, Reactivity: "toxic"},
	{ID: "neon", Name: "Neon", Formula: "Ne", Category: "gas", MolarMass: 20.1797, Reactivity: "inert"},

	// Crust and interior.
	{ID: "iron", Name: "Iron", Formula: "Fe", Category: "metal", MolarMass: 55.845},
	{ID: "nickel", Name: "Nickel", Formula: "Ni", Category: "metal", MolarMass: 58.6934},
	{ID: "silicon_dioxide", Name: "Silicon Dioxide", Formula: "SiO2", Category: "mineral", MolarMass: 60.0843},
	{ID: "magnesium_oxide", Name: "Magnesium Oxide", Formula: "MgO", Category: "mineral", MolarMass: 40.3044},
	{ID: "aluminum_oxide", Name: "Aluminum Oxide", Formula: "Al2O3", Category: "mineral", MolarMass: 101.961},
	{ID: "calcium_oxide", Name: "Calcium Oxide", Formula: "CaO", Category: "mineral", MolarMass: 56.0774},
	{ID: "iron_oxide", Name: "Iron Oxide", Formula: "FeO", Category: "mineral", MolarMass: 71.844},
	{ID: "olivine", Name: "Olivine", Formula: "Mg2SiO4", Category: "mineral", MolarMass: 140.693},
	{ID: "iron_sulfide", Name: "Iron Sulfide", Formula: "FeS", Category: "mineral", MolarMass: 87.91},
	{ID: "sulfur", Name: "Sulfur", Formula: "S", Category: "mineral", MolarMass: 32.06},
	{ID: "water_ice", Name: "Water Ice", Category: "mineral", MolarMass: 18.01528},
	{ID: "salts", Name: "Dissolved Salts", Formula: "NaCl", Category: "mineral", MolarMass: 58.443},
}

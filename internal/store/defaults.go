package store

// DefaultPEFirms seeds pe_firms.json on first run. The list is the known-firm
// reference the analyzer cross-checks owner names against; operators extend it
// over the settings API.
func DefaultPEFirms() []string {
	return []string{
		"3G Capital", "Advent International", "AEA Investors", "Affinity Equity Partners",
		"Apollo Global Management", "Ares Management", "Bain Capital", "BDT & MSD Partners",
		"Berkshire Partners", "BGH Capital", "Blackstone Group", "Blue Owl Capital",
		"Boyu Capital", "Brookfield Asset Management", "Carlyle Group", "CBC Group",
		"Centerbridge Partners", "Cerberus Capital Management", "Charlesbank Capital Partners",
		"Cinven", "CITIC Capital", "Clayton, Dubilier & Rice", "Clearlake Capital",
		"CVC Capital Partners", "EQT Partners", "FountainVest Partners", "Francisco Partners",
		"General Atlantic", "GTCR", "Hellman & Friedman", "Hillhouse Capital Group",
		"Hony Capital", "Insight Partners", "KKR", "Leonard Green & Partners",
		"Madison Dearborn Partners", "MBK Partners", "New Mountain Capital",
		"Oaktree Capital Management", "Onex Corporation", "PAG", "Pacific Equity Partners",
		"Permira", "Platinum Equity", "Primavera Capital Group", "Providence Equity Partners",
		"RRJ Capital", "Silver Lake", "Summit Partners", "TA Associates", "Thoma Bravo",
		"TPG Capital", "Vista Equity Partners", "Warburg Pincus",
	}
}

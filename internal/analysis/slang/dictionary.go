package slang

// Curated Gen-Z slang dictionary. Multi-word phrases are matched before
// their substrings ("no cap" before "cap").
var genZSlang = map[string]string{
	"no cap":                    "no lie/for real",
	"cap":                       "lie/false",
	"rizz":                      "charisma/charm",
	"bet":                       "yes/agreement/okay",
	"sus":                       "suspicious",
	"mid":                       "mediocre/average",
	"slay":                      "did a great job/killed it",
	"tea":                       "gossip/truth",
	"ick":                       "turn off/repulsion",
	"finna":                     "going to",
	"yeet":                      "throw/discard with force",
	"simp":                      "overly desperate for attention",
	"bussin":                    "delicious/really good",
	"sheesh":                    "disbelief/hype/surprise",
	"valid":                     "acceptable/reasonable/legitimate",
	"rent free":                 "obsessed with/thinking about constantly",
	"periodt":                   "end of discussion/emphasis",
	"facts":                     "true/agreement",
	"fr":                        "for real",
	"ngl":                       "not gonna lie",
	"tbh":                       "to be honest",
	"ong":                       "on god/swear",
	"deadass":                   "seriously/for real",
	"slaps":                     "really good (usually music/food)",
	"fire":                      "awesome/cool",
	"lit":                       "exciting/fun",
	"ate":                       "did really well",
	"served":                    "delivered perfectly (looks/outfit)",
	"understood the assignment": "did exactly what was needed",
	"main character":            "confident/taking charge",
	"vibe":                      "mood/feeling",
	"vibes":                     "good feelings/atmosphere",
	"cringe":                    "embarrassing",
	"toxic":                     "harmful/negative behavior",
	"clown":                     "foolish person",
	"pressed":                   "upset/bothered",
	"salty":                     "bitter/upset",
	"ghosted":                   "cut off communication suddenly",
	"left on read":              "ignored message",
	"glow up":                   "positive transformation",
	"gatekeep":                  "withhold information",
	"gaslight":                  "manipulate someone into questioning reality",
	"girlboss":                  "empowered woman (sometimes ironic)",
	"touch grass":               "go outside/get a reality check",
	"based":                     "courageous/unique opinion",
	"ratio":                     "reply got more likes than original post",
	"stan":                      "obsessive fan",
	"w":                         "win/success",
	"l":                         "loss/failure",
	"caught in 4k":              "caught red-handed with evidence",
	"down bad":                  "desperately attracted to someone",
	"iykyk":                     "if you know you know",
	"fomo":                      "fear of missing out",
	"yolo":                      "you only live once",
	"fam":                       "family/close friends",
	"squad":                     "group of friends",
	"goals":                     "aspirational",
	"mood":                      "relatable feeling",
	"same":                      "agreement/relatability",
	"shook":                     "shocked/surprised",
	"extra":                     "over the top/dramatic",
	"basic":                     "mainstream/unoriginal",
	"karen":                     "entitled/demanding person",
	"ok boomer":                 "dismissive of older generation",
	"cheugy":                    "outdated/trying too hard",
	"drip":                      "stylish outfit/style",
	"fit":                       "outfit",
	"flex":                      "show off",
	"lowkey":                    "secretly/slightly",
	"highkey":                   "openly/very",
	"hits different":            "feels special/better",
	"living rent free":          "thinking about constantly",
	"main character energy":     "confident/center of attention",
	"sending me":                "making me laugh hard",
	"sleeping on":               "underestimating/ignoring",
	"snatched":                  "looking good/perfect",
	"vibe check":                "assessing the mood/attitude",
	"we move":                   "keep going/carry on",
	"zesty":                     "energetic/lively",
	"delulu":                    "delusional",
	"solulu":                    "solution",
	"mathing":                   "making sense (usually negative: not mathing)",
	"brain rot":                 "content that makes you dumber",
	"doom scrolling":            "endlessly scrolling bad news",
	"soft launch":               "subtle reveal (usually relationship)",
	"hard launch":               "obvious reveal",
	"era":                       "phase of life",
	"villain arc":               "phase of becoming selfish/ruthless",
	"canon event":               "unavoidable life event",
	"side eye":                  "judgmental look",
	"bombastic side eye":        "very judgmental look",
	"let him cook":              "let him do his thing",
	"rizzler":                   "person with rizz",
	"gyatt":                     "expression of surprise/admiration",
	"fanum tax":                 "taking a portion of food",
	"skibidi":                   "nonsense/filler word",
	"ohio":                      "weird/crazy",
	"sigma":                     "lone wolf/successful male",
	"mewing":                    "jawline exercise",
	"looksmaxxing":              "improving appearance",
	"mogging":                   "looking better than someone else",
	"goated":                    "greatest of all time status",
	"say less":                  "I understand, say no more",
	"slayed":                    "did amazing",
	"triggered":                 "upset/offended",
	"ship":                      "support a relationship",
	"spill":                     "tell the gossip",
	"cancel":                    "boycott someone",
	"chronically online":        "spends too much time online",
	"aesthetic":                 "visual style/vibe",
	"aura":                      "personal energy",
	"pick me":                   "seeking attention",
	"npc":                       "basic person/no personality",
	"it girl":                   "trendy, popular girl",
	"red flag":                  "warning sign",
	"green flag":                "good sign",
	"queen":                     "amazing woman",
	"king":                      "amazing man",
	"bestie":                    "best friend",
	"bae":                       "before anyone else",
	"im deceased":               "very funny",
	"not me":                    "expressing disbelief",
	"the way":                   "emphasis phrase",
	"pls":                       "please",
	"ur":                        "your",
	"bc":                        "because",
	"rn":                        "right now",
	"af":                        "as f***",
	"asf":                       "as f***",
	"istg":                      "I swear to god",
	"lmao":                      "laughing my ass off",
	"lmfao":                     "laughing my f***ing ass off",
	"idk":                       "I don't know",
	"wdym":                      "what do you mean",
	"omg":                       "oh my god",
	"wtf":                       "what the f***",
	"bruh":                      "expressing disbelief",
	"oop":                       "oops/awkward",
	"yikes":                     "expression of concern",
	"oof":                       "expression of pain/sympathy",
}

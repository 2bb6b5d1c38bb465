package triage

import (
	"fmt"
	"regexp"
)

// scoredMatcher is the one generic "scored keyword/pattern table" used by
// every detection concern (specialty, critical condition, temporal tier).
// Keywords are matched as whole tokens; patterns carry specific clinical
// phrasing and weigh more where hit counts matter.
type scoredMatcher struct {
	label    string
	score    float64
	keywords []*regexp.Regexp
	patterns []*regexp.Regexp
}

func (m *scoredMatcher) matched(text string) bool {
	for _, re := range m.keywords {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// hits counts distinct keyword and pattern matches.
func (m *scoredMatcher) hits(text string) (kw, pat int) {
	for _, re := range m.keywords {
		if re.MatchString(text) {
			kw++
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(text) {
			pat++
		}
	}
	return kw, pat
}

// keywordScore is a single scored keyword compiled for whole-token matching.
type keywordScore struct {
	word  string
	score float64
	re    *regexp.Regexp
}

type specialtyEntry struct {
	name    Specialty
	urgency float64
	scoredMatcher
}

type abbrev struct {
	re        *regexp.Regexp
	expansion string
}

// lexicon holds every compiled table the engine consults. It is built once by
// newLexicon and never mutated afterwards, so it is safe to share across
// concurrent classification calls.
type lexicon struct {
	abbreviations []abbrev
	specialties   []specialtyEntry
	conditions    []scoredMatcher
	urgencyWords  []keywordScore
	severityWords []keywordScore
	temporalTiers []scoredMatcher
}

type wordScore struct {
	word  string
	score float64
}

type specialtySpec struct {
	name     Specialty
	urgency  float64
	keywords []string
	patterns []string
}

// Tables are written against normalized text: lowercase, diacritics folded
// (años -> anos), single-spaced, abbreviations expanded.

var abbreviationSpecs = []struct{ abbr, expansion string }{
	{"fc", "frecuencia cardiaca"},
	{"fr", "frecuencia respiratoria"},
	{"ta", "tension arterial"},
	{"spo2", "saturacion oxigeno"},
	{"ecg", "electrocardiograma"},
	{"rx", "radiografia"},
	{"tac", "tomografia"},
	{"rm", "resonancia magnetica"},
	{"acv", "accidente cerebrovascular"},
	{"hta", "hipertension arterial"},
	{"iam", "infarto agudo del miocardio"},
}

var specialtySpecs = []specialtySpec{
	{
		name: SpecialtyCardiology, urgency: 0.8,
		keywords: []string{
			"cardiologia", "cardiology", "corazon", "cardiaco", "infarto",
			"angina", "arritmia", "hipertension", "electrocardiograma",
			"ecocardiograma", "cateterismo", "marcapasos", "valvular",
			"coronario", "miocardio",
		},
		patterns: []string{
			`dolor\s+(?:en\s+el\s+)?(?:pecho|toracico|precordial)`,
			`infarto\s+(?:agudo\s+)?(?:del?\s+)?miocardio`,
			`insuficiencia\s+cardiaca`,
			`arritmia\s+(?:ventricular|auricular)`,
			`hipertension\s+arterial`,
		},
	},
	{
		name: SpecialtyNeurology, urgency: 0.9,
		keywords: []string{
			"neurologia", "neurology", "cerebro", "neurologico", "convulsiones",
			"epilepsia", "paralisis", "parkinson", "alzheimer", "cefalea",
			"migrana", "esclerosis", "neuropatia", "meningitis", "encefalitis",
			"glasgow",
		},
		patterns: []string{
			`accidente\s+cerebrovascular`,
			`perdida\s+de\s+(?:conciencia|conocimiento)`,
			`crisis\s+convulsiva`,
			`paralisis\s+(?:facial|de\s+extremidades)`,
			`glasgow\s+(?:menor\s+)?(?:de\s+)?[3-8]\b`,
		},
	},
	{
		name: SpecialtySurgery, urgency: 0.7,
		keywords: []string{
			"cirugia", "surgery", "quirurgico", "operacion", "intervencion",
			"laparoscopia", "apendicitis", "hernia", "trauma", "fractura",
			"hemorragia", "perforacion", "obstruccion",
		},
		patterns: []string{
			`abdomen\s+agudo`,
			`trauma\s+(?:abdominal|toracico|craneal)`,
			`hemorragia\s+(?:digestiva|interna|masiva)`,
			`fractura\s+(?:expuesta|abierta|multiple)`,
			`perforacion\s+(?:gastrica|intestinal)`,
		},
	},
	{
		name: SpecialtyInternal, urgency: 0.6,
		keywords: []string{
			"medicina interna", "internal medicine", "fiebre", "sepsis",
			"infeccion", "diabetes", "metabolico", "endocrino",
		},
		patterns: []string{
			`sepsis\s+(?:severa|grave)`,
			`insuficiencia\s+(?:renal|hepatica|respiratoria)`,
			`diabetes\s+(?:descompensada|mellitus)`,
			`fiebre\s+(?:alta|persistente)`,
		},
	},
	{
		name: SpecialtyPediatrics, urgency: 0.7,
		keywords: []string{
			"pediatria", "pediatrics", "pediatrico", "lactante", "neonato",
			"bronquiolitis",
		},
		patterns: []string{
			`(?:nino|nina|menor)\s+de\s+\d+\s+(?:anos|meses)`,
			`recien\s+nacido`,
			`\d+\s+meses\s+de\s+edad`,
		},
	},
	{
		name: SpecialtyGynecology, urgency: 0.5,
		keywords: []string{
			"ginecologia", "gynecology", "embarazo", "gestacion", "parto",
			"cesarea", "ginecologico", "menstruacion", "ovario", "utero",
			"prenatal", "preeclampsia", "eclampsia",
		},
		patterns: []string{
			`embarazo\s+(?:de\s+)?\d+\s+semanas`,
			`trabajo\s+de\s+parto`,
			`hemorragia\s+(?:vaginal|uterina)`,
		},
	},
	{
		name: SpecialtyOrthopedics, urgency: 0.4,
		keywords: []string{
			"ortopedia", "orthopedics", "fractura", "luxacion", "esguince",
			"articular", "oseo", "columna", "vertebral", "artroscopia",
			"protesis", "osteomielitis",
		},
		patterns: []string{
			`fractura\s+de\s+(?:femur|tibia|radio|cubito|cadera)`,
			`luxacion\s+de\s+(?:hombro|cadera|rodilla)`,
			`dolor\s+(?:lumbar|cervical|articular)`,
		},
	},
	{
		name: SpecialtyDermatology, urgency: 0.3,
		keywords: []string{
			"dermatologia", "dermatology", "dermatitis", "psoriasis",
			"melanoma", "eccema", "urticaria",
		},
		patterns: []string{
			`lesion(?:es)?\s+(?:cutanea|en\s+(?:la\s+)?piel)`,
		},
	},
	{
		name: SpecialtyOphthalmology, urgency: 0.4,
		keywords: []string{
			"oftalmologia", "ophthalmology", "ocular", "catarata", "glaucoma",
			"retina", "conjuntivitis",
		},
		patterns: []string{
			`perdida\s+(?:subita\s+)?de\s+(?:la\s+)?vision`,
		},
	},
	{
		name: SpecialtyENT, urgency: 0.4,
		keywords: []string{
			"otorrinolaringologia", "otorrino", "amigdalitis", "sinusitis",
			"epistaxis", "vertigo", "otitis",
		},
	},
	{
		name: SpecialtyUrology, urgency: 0.5,
		keywords: []string{
			"urologia", "urology", "urinario", "prostata", "hematuria",
		},
		patterns: []string{
			`retencion\s+urinaria`,
			`colico\s+renal`,
		},
	},
	{
		name: SpecialtyPulmonology, urgency: 0.7,
		keywords: []string{
			"neumologia", "pulmonology", "pulmonar", "neumonia", "asma",
			"epoc", "bronquitis", "tuberculosis", "disnea",
		},
		patterns: []string{
			`crisis\s+asmatica`,
			`dificultad\s+respiratoria`,
		},
	},
	{
		name: SpecialtyGastro, urgency: 0.6,
		keywords: []string{
			"gastroenterologia", "gastroenterology", "gastrico", "intestinal",
			"hepatitis", "cirrosis", "colitis", "gastritis", "pancreatitis",
		},
		patterns: []string{
			`hemorragia\s+digestiva`,
			`dolor\s+abdominal`,
		},
	},
	{
		name: SpecialtyEndocrinology, urgency: 0.5,
		keywords: []string{
			"endocrinologia", "endocrinology", "tiroides", "hipotiroidismo",
			"hipertiroidismo", "cetoacidosis",
		},
		patterns: []string{
			`diabetes\s+mellitus`,
		},
	},
	{
		name: SpecialtyRheumatology, urgency: 0.4,
		keywords: []string{
			"reumatologia", "rheumatology", "artritis", "lupus", "artrosis",
			"fibromialgia",
		},
	},
	{
		name: SpecialtyHematology, urgency: 0.7,
		keywords: []string{
			"hematologia", "hematology", "anemia", "leucemia", "linfoma",
			"trombocitopenia", "coagulacion",
		},
	},
	{
		name: SpecialtyInfectiology, urgency: 0.8,
		keywords: []string{
			"infectologia", "vih", "sida", "dengue", "malaria", "celulitis",
		},
		patterns: []string{
			`sindrome\s+febril`,
			`infectious\s+diseases?`,
		},
	},
	{
		name: SpecialtyNephrology, urgency: 0.7,
		keywords: []string{
			"nefrologia", "nephrology", "renal", "dialisis", "creatinina",
		},
		patterns: []string{
			`insuficiencia\s+renal`,
		},
	},
	{
		name: SpecialtyOncology, urgency: 0.8,
		keywords: []string{
			"oncologia", "oncology", "cancer", "tumor", "metastasis",
			"quimioterapia", "radioterapia", "neoplasia",
		},
		patterns: []string{
			`masa\s+(?:tumoral|abdominal|pulmonar)`,
		},
	},
	{
		name: SpecialtyPsychiatry, urgency: 0.6,
		keywords: []string{
			"psiquiatria", "psychiatry", "depresion", "ansiedad", "psicosis",
			"esquizofrenia",
		},
		patterns: []string{
			`ideacion\s+suicida`,
			`intento\s+de\s+suicidio`,
		},
	},
	{
		name: SpecialtyAnesthesiology, urgency: 0.8,
		keywords: []string{
			"anestesiologia", "anesthesiology", "anestesia", "intubacion",
		},
		patterns: []string{
			`via\s+aerea\s+dificil`,
		},
	},
	{
		name: SpecialtyRadiology, urgency: 0.5,
		keywords: []string{
			"radiologia", "radiology", "radiografia", "tomografia",
			"resonancia", "ecografia",
		},
	},
	{
		name: SpecialtyPathology, urgency: 0.4,
		keywords: []string{
			"patologia", "pathology", "biopsia", "histologia", "citologia",
		},
	},
	{
		name: SpecialtyGeriatrics, urgency: 0.6,
		keywords: []string{
			"geriatria", "geriatrics", "geriatrico", "demencia", "fragilidad",
		},
		patterns: []string{
			`adulto\s+mayor`,
		},
	},
}

var conditionSpecs = []struct {
	category ConditionCategory
	severity float64
	patterns []string
}{
	{
		category: ConditionCardiovascular, severity: 95,
		patterns: []string{
			`infarto(?:\s+agudo)?(?:\s+del?\s+miocardio)?`,
			`angina\s+inestable`,
			`arritmia\s+(?:maligna|ventricular)`,
			`shock\s+cardiogenico`,
			`edema\s+agudo\s+(?:de\s+)?pulmon`,
			`taponamiento\s+cardiaco`,
			`diseccion\s+aortica`,
		},
	},
	{
		category: ConditionNeurological, severity: 90,
		patterns: []string{
			`accidente\s+cerebrovascular`,
			`\bstroke\b`,
			`hemorragia\s+(?:cerebral|intracraneal)`,
			`estado\s+epileptico`,
			`\bcoma\b`,
			`glasgow\s+(?:menor\s+)?(?:de\s+)?[3-8]\b`,
			`hipertension\s+intracraneal`,
		},
	},
	{
		category: ConditionRespiratory, severity: 85,
		patterns: []string{
			`insuficiencia\s+respiratoria\s+aguda`,
			`neumotorax\s+(?:a\s+)?tension`,
			`embolia\s+pulmonar`,
			`edema\s+agudo\s+(?:de\s+)?pulmon`,
			`crisis\s+asmatica\s+severa`,
			`saturacion\s+(?:oxigeno\s+)?(?:menor\s+)?(?:de\s+)?(?:al\s+)?(?:[0-8][0-9]|90)\s*%?`,
		},
	},
	{
		category: ConditionTrauma, severity: 88,
		patterns: []string{
			`trauma\s+(?:craneoencefalico|grave|severo)`,
			`politraumatismo`,
			`hemorragia\s+(?:masiva|activa)`,
			`shock\s+hipovolemico`,
			`fractura\s+(?:expuesta|abierta)`,
			`lesion\s+medular`,
		},
	},
	{
		category: ConditionGastrointestinal, severity: 80,
		patterns: []string{
			`hemorragia\s+digestiva\s+(?:alta|baja|masiva)`,
			`abdomen\s+agudo`,
			`perforacion\s+(?:gastrica|intestinal)`,
			`obstruccion\s+intestinal`,
			`pancreatitis\s+aguda\s+severa`,
		},
	},
	{
		category: ConditionInfectious, severity: 85,
		patterns: []string{
			`sepsis\s+severa`,
			`shock\s+septico`,
			`meningitis`,
			`encefalitis`,
			`endocarditis`,
			`neutropenia\s+febril`,
		},
	},
}

// Flat urgency keywords, used only when no critical-condition pattern fires.
var urgencyWordSpecs = []wordScore{
	{"critico", 80}, {"critical", 80},
	{"grave", 70}, {"severo", 70},
	{"urgente", 60}, {"urgent", 60},
	{"emergencia", 75}, {"emergency", 75},
	{"inmediato", 65}, {"inmediata", 65}, {"immediate", 65},
	{"shock", 85}, {"paro", 90},
	{"codigo azul", 95}, {"code blue", 95},
	{"uci", 60}, {"icu", 60},
}

// Severity indicators sum; functional-status terms can subtract.
var severityWordSpecs = []wordScore{
	{"dolor intenso", 20}, {"severe pain", 20}, {"dolor severo", 25},
	{"hemorragia", 30}, {"hemorrhage", 30}, {"sangrado", 25},
	{"dificultad respiratoria", 25}, {"dyspnea", 25}, {"disnea", 25},
	{"perdida de conciencia", 35}, {"loss of consciousness", 35},
	{"convulsiones", 30}, {"seizures", 30}, {"crisis convulsiva", 30},
	{"vomito", 10}, {"vomiting", 10}, {"nauseas", 5},
	{"fiebre alta", 15}, {"high fever", 15}, {"hipertermia", 20},
	{"hipotermia", 25}, {"hypothermia", 25},
	{"deshidratacion", 15}, {"dehydration", 15},
	{"alteracion del estado mental", 30}, {"altered mental status", 30},
	{"agitacion", 15}, {"agitation", 15}, {"confusion", 20},
	{"paralisis", 35}, {"paralysis", 35}, {"parestesias", 20},
	{"dolor toracico", 25}, {"chest pain", 25}, {"dolor precordial", 30},
	{"postrado", 20}, {"bedridden", 20}, {"incapacitado", 25},
	{"dependiente", 15}, {"dependent", 15}, {"ambulatorio", -5},
	{"independiente", -10}, {"independent", -10},
}

var temporalTierSpecs = []struct {
	label    string
	score    float64
	keywords []string
	patterns []string
}{
	{
		label: "inmediato", score: 100,
		keywords: []string{
			"inmediato", "inmediata", "immediate", "ahora", "now", "urgente",
			"urgent", "emergencia", "emergency",
		},
	},
	{
		label: "hoy", score: 80,
		keywords: []string{"hoy", "today"},
		patterns: []string{`mismo\s+dia`, `same\s+day`},
	},
	{
		label: "esta semana", score: 60,
		patterns: []string{
			`esta\s+semana`, `this\s+week`,
			`proximos?\s+dias`, `next\s+(?:few\s+)?days`,
		},
	},
}

func compileKeywords(words []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(w) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile keyword %q: %w", w, err)
		}
		res = append(res, re)
	}
	return res, nil
}

func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
		}
		res = append(res, re)
	}
	return res, nil
}

func compileWordScores(specs []wordScore) ([]keywordScore, error) {
	out := make([]keywordScore, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(s.word) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile keyword %q: %w", s.word, err)
		}
		out = append(out, keywordScore{word: s.word, score: s.score, re: re})
	}
	return out, nil
}

// newLexicon compiles every table. A compilation failure is a configuration
// fault and prevents the engine from initializing.
func newLexicon() (*lexicon, error) {
	lex := &lexicon{}

	for _, a := range abbreviationSpecs {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(a.abbr) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile abbreviation %q: %w", a.abbr, err)
		}
		lex.abbreviations = append(lex.abbreviations, abbrev{re: re, expansion: a.expansion})
	}

	for _, s := range specialtySpecs {
		kw, err := compileKeywords(s.keywords)
		if err != nil {
			return nil, fmt.Errorf("specialty %s: %w", s.name, err)
		}
		pat, err := compilePatterns(s.patterns)
		if err != nil {
			return nil, fmt.Errorf("specialty %s: %w", s.name, err)
		}
		lex.specialties = append(lex.specialties, specialtyEntry{
			name:    s.name,
			urgency: s.urgency,
			scoredMatcher: scoredMatcher{
				label:    string(s.name),
				keywords: kw,
				patterns: pat,
			},
		})
	}
	if len(lex.specialties) == 0 {
		return nil, fmt.Errorf("specialty table is empty")
	}

	for _, c := range conditionSpecs {
		pat, err := compilePatterns(c.patterns)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %w", c.category, err)
		}
		lex.conditions = append(lex.conditions, scoredMatcher{
			label:    string(c.category),
			score:    c.severity,
			patterns: pat,
		})
	}
	if len(lex.conditions) == 0 {
		return nil, fmt.Errorf("critical-condition table is empty")
	}

	var err error
	if lex.urgencyWords, err = compileWordScores(urgencyWordSpecs); err != nil {
		return nil, fmt.Errorf("urgency keywords: %w", err)
	}
	if lex.severityWords, err = compileWordScores(severityWordSpecs); err != nil {
		return nil, fmt.Errorf("severity indicators: %w", err)
	}

	for _, t := range temporalTierSpecs {
		kw, err := compileKeywords(t.keywords)
		if err != nil {
			return nil, fmt.Errorf("temporal tier %s: %w", t.label, err)
		}
		pat, err := compilePatterns(t.patterns)
		if err != nil {
			return nil, fmt.Errorf("temporal tier %s: %w", t.label, err)
		}
		lex.temporalTiers = append(lex.temporalTiers, scoredMatcher{
			label:    t.label,
			score:    t.score,
			keywords: kw,
			patterns: pat,
		})
	}

	return lex, nil
}

// urgencyFor returns the base-urgency factor for a specialty, scaled later to
// 0-100. Unknown specialties get the medium default.
func (l *lexicon) urgencyFor(name Specialty) float64 {
	for i := range l.specialties {
		if l.specialties[i].name == name {
			return l.specialties[i].urgency
		}
	}
	return 0.5
}

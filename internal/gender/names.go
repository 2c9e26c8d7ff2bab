package gender

// femaleNames 常见女性名（小写、无重音）
var femaleNames = newNameSet(
	"maria", "anna", "giulia", "francesca", "sara", "laura", "valentina", "chiara",
	"alessia", "federica", "elena", "silvia", "martina", "elisa", "paola", "giorgia",
	"monica", "simona", "daniela", "cristina", "roberta", "barbara", "alessandra", "ilaria",
	"serena", "michela", "veronica", "beatrice", "alice", "aurora", "sofia", "emma", "gaia",
	"giada", "noemi", "rebecca", "camilla", "arianna", "eleonora", "irene", "ludovica",
	"bianca", "giovanna", "rosa", "teresa", "lucia", "patrizia", "antonella", "claudia",
	"manuela", "sabrina", "stefania", "angela", "luisa", "carla", "grazia", "giuseppina",
	"margherita", "caterina", "carlotta", "marta", "virginia", "valeria", "viviana",
	"romina", "lorena", "loredana", "nicoletta", "elisabetta", "donatella", "emanuela",
	"raffaella", "cinzia", "tiziana", "ornella", "gabriella", "concetta", "assunta",
	"carmela", "filomena", "antonietta", "addolorata", "immacolata", "nunzia", "cosima",
	"vita", "giuliana", "rossella", "marika", "katia", "sonia", "nadia", "milena",
	"mirella", "miriam", "debora", "samantha", "jessica", "jennifer", "vanessa", "pamela",
	"fabiana", "diana", "denise", "desire", "desireee", "eliana", "elvira", "enrica",
	"erika", "erica", "ester", "eva", "evelyn", "fabiola", "fiorella", "flora", "floriana",
	"flavia", "franca", "fulvia", "gemma", "gilda", "gina", "ginevra", "gioia", "gisella",
	"giusy", "gloria", "graziella", "greta", "ida", "ilenia", "ileana", "imma", "ines",
	"ingrid", "isabella", "isadora", "ivana", "ivonne", "lara", "larissa", "lavinia", "lea",
	"leila", "lelia", "letizia", "lia", "liana", "lidia", "lilia", "liliana", "lina",
	"linda", "lisa", "livia", "lorella", "luana", "luciana", "lucilla", "luigia", "luna",
	"maddalena", "mafalda", "maira", "manola", "marcella", "mariella", "mariangela",
	"mariapia", "mariarosa", "mariateresa", "marianna", "marica", "marilena", "marina",
	"marinella", "marisa", "maristella", "marzia", "matilde", "maura", "melissa", "melody",
	"micaela", "mina", "miranda", "mirta", "moira", "morena", "natalia", "natasha",
	"natascia", "nella", "nicolina", "nina", "nives", "nora", "norina", "norma", "nuccia",
	"odette", "olga", "olimpia", "olivia", "ombretta", "oriana", "orietta", "orsola",
	"paris", "penelope", "petra", "pia", "piera", "pierangela", "pierina", "priscilla",
	"rachele", "raffaela", "ramona", "regina", "renata", "rita", "romilda", "rosalba",
	"rosalia", "rosanna", "rosaria", "rosella", "rosetta", "rosy", "ruth", "sabina",
	"samira", "sandra", "santina", "savina", "selene", "selvaggia", "silvana", "simonetta",
	"sissy", "smeralda", "sole", "soledad", "stella", "susanna", "sveva", "tamara", "tania",
	"tatiana", "tecla", "tina", "tosca", "tullia", "ursula", "vanda", "vanna", "vera",
	"verdiana", "viola", "violetta", "vittoria", "wanda", "wilma", "ylenia", "yolanda",
	"zoe", "adorazione", "agata", "agnese", "alba", "alberta", "albina", "alda",
	"alfonsina", "amalia", "amelia", "america", "andreina", "angelica", "annalisa",
	"annamaria", "annunziata", "antonia", "apollonia", "armida", "assuntina", "augusta",
	"aurelia", "benedetta", "berenice", "bernadette", "berta", "bruna", "brunella",
	"carolina", "celeste", "cesira", "clara", "clelia", "clementina", "clotilde", "colomba",
	"consolata", "corinna", "cornelia", "costanza", "dalia", "dalila", "daria", "delfina",
	"delia", "diletta", "dina", "dolores", "domenica", "domitilla", "dora", "dorina",
	"doriana", "dorotea", "edda", "edith", "edoarda", "edvige", "elda", "adele", "agostina",
	"aida", "aileen", "aimee", "alena", "alexia", "alma", "ambra", "amelie", "amedea",
	"anastasia", "angelina", "anita", "annabella", "arabella", "ariana", "artemisia",
	"asia", "azzurra", "cloe", "chloe", "clarissa", "dafne", "elsa", "emily", "fiamma",
	"frida", "isabel", "jasmine", "lavanda", "leonora", "luce", "margot", "maya", "mia",
	"nicole", "ottavia", "perla", "samanta", "sharon", "sibilla", "sonja", "tanya",
	"tiffany", "zaira", "zelda", "zita", "ale", "anto", "bea", "cate", "ceci", "cla", "cri",
	"dani", "eli", "fede", "fra", "gio", "giuly", "lau", "lety", "lucy", "manu", "mari",
	"mati", "michi", "roby", "simo", "stefy", "vale", "vero", "vicky",
)

// maleNames 常见男性名（小写、无重音）
var maleNames = newNameSet(
	"marco", "luca", "andrea", "matteo", "alessandro", "francesco", "lorenzo", "davide",
	"simone", "federico", "giuseppe", "antonio", "giovanni", "stefano", "roberto",
	"michele", "daniele", "paolo", "riccardo", "gabriele", "filippo", "nicola", "fabio",
	"emanuele", "alberto", "tommaso", "leonardo", "edoardo", "massimo", "mario", "luigi",
	"vincenzo", "salvatore", "carlo", "angelo", "franco", "raffaele", "domenico", "pietro",
	"sergio", "enrico", "maurizio", "claudio", "giorgio", "gianluca", "gianni", "luciano",
	"bruno", "enzo", "gianfranco", "piero", "silvio", "cesare", "renato", "guido",
	"umberto", "aldo", "adriano", "vittorio", "renzo", "dario", "mauro", "fernando",
	"eugenio", "ernesto", "arturo", "camillo", "fabrizio", "corrado", "giacomo",
	"christian", "manuel", "mirko", "mirco", "ivan", "igor", "erik", "kevin", "alex",
	"denis", "dennis", "patrick", "jonathan", "ryan", "dylan", "bryan", "brian", "michael",
	"thomas", "daniel", "samuel", "samuele", "nicholas", "nicolas", "fabiano", "fabian",
	"loris", "boris", "omar", "alan", "elvis", "eros", "romeo", "rocco", "remo", "romolo",
	"tiziano", "moreno", "marino", "mariano", "martino", "massimiliano", "marcello",
	"maurilio", "nando", "nunzio", "orazio", "oscar", "otello", "ottavio", "osvaldo",
	"patrizio", "pino", "primo", "prospero", "giancarlo", "gianmaria", "gianpaolo",
	"gianpiero", "gianmarco", "giambattista", "giampaolo", "giampiero", "giordano",
	"giuliano", "giulio", "graziano", "gregorio", "guglielmo", "igino", "ignazio", "ivo",
	"jacopo", "lauro", "lazzaro", "leandro", "lello", "leo", "leone", "leonida", "leopoldo",
	"libero", "livio", "lodovico", "lucio", "ludovico", "manlio", "manolo", "marcantonio",
	"marcolino", "martin", "mattia", "max", "maicol", "miguel", "mohamed", "mohammed",
	"nathan", "neal", "neil", "nelson", "nick", "niko", "noah", "noel", "norman", "oliver",
	"oreste", "orlando", "pablo", "pasquale", "paul", "peter", "pier", "pierluigi",
	"piermario", "piersilvio", "piervincenzo", "quinto", "quintino", "agostino", "albano",
	"alberico", "alcide", "alfio", "alfredo", "amadeo", "amedeo", "ambrogio", "anacleto",
	"anastasio", "anselmo", "antonino", "arcangelo", "archibaldo", "aristide", "armando",
	"arnaldo", "arsenio", "attilio", "augusto", "aurelio", "barnaba", "bartolomeo",
	"basilio", "battista", "beniamino", "benito", "bernardo", "biagio", "bortolo",
	"calogero", "cataldo", "celestino", "cesario", "clemente", "colombano", "corinto",
	"cornelio", "cosimo", "costantino", "cristiano", "cristoforo", "damiano", "dino",
	"donato", "edgardo", "edmondo", "egidio", "eligio", "elio", "elpidio", "emidio",
	"emilio", "emmanuele", "ennio", "eraclio", "ercole", "ermenegildo", "ermete", "erminio",
	"ettore", "evaristo", "ezechiele", "ezio", "fausto", "felice", "ferdinando",
	"ferruccio", "filiberto", "fiorenzo", "flaminio", "flavio", "floriano", "fortunato",
	"fulvio", "gaetano", "gaspare", "gastone", "gennaro", "gerardo", "germano", "gerolamo",
	"gesualdo", "gino", "giobbe", "gioacchino", "gionata", "giosuee", "girolamo", "gustavo",
	"diego", "elia", "elias", "emiliano", "gabriel", "giacinto", "gioele", "ian", "ilario",
	"ismaele", "italo", "jacob", "jari", "joshua", "julian", "kriss", "lamberto", "lando",
	"lenny", "liam", "manfredi", "marius", "nico", "nicolo", "ottone", "raul", "rinaldo",
	"rodolfo", "ruben", "ruggero", "sandro", "sebastiano", "silvano", "silvestro", "taddeo",
	"tancredi", "teodoro", "tiberio", "tito", "ugo", "ulisse", "urbano", "valentino",
	"valerio", "valter", "walter", "vittorino", "vladimiro", "zaccaria", "zeno", "beppe",
	"calo", "checco", "ciro", "dado", "dade", "giaco", "gimmi", "jimmy", "lele", "lollo",
	"matte", "pippo", "ricky", "teo", "tino", "toni", "tony", "vitto",
)

func newNameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

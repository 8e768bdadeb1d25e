package game

import "math/rand"

// wordLists maps a category to its word pool. Pools must stay larger
// than any allowed imposter count so every imposter can get a distinct
// word that also differs from the main word.
var wordLists = map[string][]string{
	"actors": {
		"Leonardo DiCaprio", "Meryl Streep", "Robert De Niro", "Scarlett Johansson", "Tom Hanks",
		"Jennifer Lawrence", "Brad Pitt", "Angelina Jolie", "Will Smith", "Emma Stone",
		"Ryan Gosling", "Natalie Portman", "Matt Damon", "Anne Hathaway", "Christian Bale",
		"Sandra Bullock", "Johnny Depp", "Julia Roberts", "George Clooney", "Charlize Theron",
		"Hugh Jackman", "Amy Adams", "Ryan Reynolds", "Emma Watson", "Chris Evans",
		"Margot Robbie", "Denzel Washington", "Cate Blanchett", "Jake Gyllenhaal", "Reese Witherspoon",
	},
	"movies": {
		"The Godfather", "Titanic", "Avatar", "The Dark Knight", "Pulp Fiction",
		"Forrest Gump", "Inception", "The Matrix", "Star Wars", "Jurassic Park",
		"The Lion King", "E.T.", "Jaws", "The Avengers", "Frozen",
		"Black Panther", "Spider-Man", "Iron Man", "Batman Begins", "The Shawshank Redemption",
		"Goodfellas", "Casablanca", "Gone with the Wind", "Lawrence of Arabia", "Schindler's List",
		"Citizen Kane", "Vertigo", "Psycho", "Singin' in the Rain", "Some Like It Hot",
	},
	"football-athletes": {
		"Lionel Messi", "Cristiano Ronaldo", "Neymar Jr", "Kylian Mbappé", "Erling Haaland",
		"Kevin De Bruyne", "Mohamed Salah", "Sadio Mané", "Virgil van Dijk", "Luka Modrić",
		"Karim Benzema", "Robert Lewandowski", "Harry Kane", "Son Heung-min", "Raheem Sterling",
		"Riyad Mahrez", "Bruno Fernandes", "Paul Pogba", "N'Golo Kanté", "Thiago Silva",
		"Sergio Ramos", "Marcelo", "Dani Alves", "Jordi Alba", "Trent Alexander-Arnold",
		"Joshua Kimmich", "Thomas Müller", "Marco Verratti", "Pedri", "Jamal Musiala",
	},
	"animals": {
		"Lion", "Tiger", "Elephant", "Giraffe", "Zebra",
		"Penguin", "Polar Bear", "Kangaroo", "Koala", "Panda",
		"Dolphin", "Whale", "Shark", "Eagle", "Owl",
		"Wolf", "Fox", "Rabbit", "Squirrel", "Deer",
		"Horse", "Cow", "Pig", "Sheep", "Goat",
		"Cat", "Dog", "Monkey", "Gorilla", "Chimpanzee",
	},
	"football-clubs": {
		"Manchester United", "Manchester City", "Liverpool", "Chelsea", "Arsenal",
		"Tottenham", "Real Madrid", "Barcelona", "Atletico Madrid", "Sevilla",
		"Bayern Munich", "Borussia Dortmund", "RB Leipzig", "Juventus", "AC Milan",
		"Inter Milan", "Napoli", "AS Roma", "Paris Saint-Germain", "Olympique Marseille",
		"Ajax", "PSV Eindhoven", "Benfica", "Porto", "Sporting CP",
		"Celtic", "Rangers", "Galatasaray", "Fenerbahçe", "Besiktas",
	},
}

// Categories lists the available word categories.
func Categories() []string {
	out := make([]string, 0, len(wordLists))
	for c := range wordLists {
		out = append(out, c)
	}
	return out
}

// ValidCategory reports whether a word list exists for the category.
func ValidCategory(category string) bool {
	_, ok := wordLists[category]
	return ok
}

// RandomWord draws one word uniformly from the category. Empty string
// if the category is unknown.
func RandomWord(category string) string {
	words := wordLists[category]
	if len(words) == 0 {
		return ""
	}
	return words[rand.Intn(len(words))]
}

// RandomWords draws up to count distinct words from the category,
// never returning exclude. The draw is a Fisher-Yates shuffle of the
// remaining pool followed by a prefix take, so it is uniform over the
// eligible set.
func RandomWords(category string, count int, exclude string) []string {
	pool := make([]string, 0, len(wordLists[category]))
	for _, w := range wordLists[category] {
		if w != exclude {
			pool = append(pool, w)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

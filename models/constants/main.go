package constants

type Significance string

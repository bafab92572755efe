package repository

const upsertUserCypher = `
MERGE (u:User {userId: $userId})
SET u += $props
RETURN u.userId AS userId
`

const upsertContactCypher = `
MATCH (owner:User {userId: $ownerId})
MERGE (c:Contact {contactId: $contactId})
SET c += $props
MERGE (owner)-[:OWNS]->(c)
RETURN c.contactId AS contactId
`

const upsertUserRelationshipCypher = `
MATCH (u:User {userId: $ownerId})-[:OWNS]->(c:Contact {contactId: $contactAId})
MERGE (u)-[k:KNOWS {relationshipId: $relationshipId}]->(c)
SET k += $props
RETURN k.relationshipId AS relationshipId
`

const upsertPeerRelationshipCypher = `
MATCH (u:User {userId: $ownerId})-[:OWNS]->(a:Contact {contactId: $contactAId})
MATCH (u)-[:OWNS]->(b:Contact {contactId: $contactBId})
MERGE (a)-[k:KNOWS {relationshipId: $relationshipId}]->(b)
SET k += $props
RETURN k.relationshipId AS relationshipId
`

const upsertTeamCypher = `
MERGE (t:Team {teamId: $teamId})
SET t.name = $name,
    t.createdAt = coalesce(t.createdAt, $createdAt)
WITH t
OPTIONAL MATCH (t)<-[stale:MEMBER_OF]-(old:User)
WHERE NOT old.userId IN $memberIds
DELETE stale
WITH DISTINCT t
UNWIND $memberIds AS memberId
MATCH (u:User {userId: memberId})
MERGE (u)-[:MEMBER_OF]->(t)
`

const shareContactCypher = `
MATCH (c:Contact {contactId: $contactId})
MATCH (t:Team {teamId: $teamId})
MERGE (c)-[s:SHARED_WITH]->(t)
SET s.visible = $visible,
    s.sharedAt = $sharedAt
`

const fetchUserCypher = `
MATCH (u:User {userId: $userId})
RETURN u.userId AS userId,
       u.name AS name,
       u.email AS email,
       u.createdAt AS createdAt,
       u.updatedAt AS updatedAt
`

const ownedContactsCypher = `
MATCH (:User {userId: $userId})-[:OWNS]->(c:Contact)
RETURN c.contactId AS contactId,
       c.ownerUserId AS ownerUserId,
       c.name AS name,
       c.email AS email,
       c.company AS company,
       c.title AS title,
       c.industry AS industry,
       c.createdAt AS createdAt,
       c.updatedAt AS updatedAt
ORDER BY contactId
`

const relationshipsCypher = `
MATCH (u:User {userId: $userId})-[k:KNOWS]->(c:Contact)
RETURN k.relationshipId AS relationshipId,
       c.contactId AS contactAId,
       "" AS contactBId,
       true AS isUserRelationship,
       k.relationshipType AS relationshipType,
       k.strength AS strength,
       k.verified AS verified,
       k.aiInferred AS aiInferred,
       k.confidence AS confidence,
       k.updatedAt AS updatedAt
UNION ALL
MATCH (u:User {userId: $userId})-[:OWNS]->(a:Contact)-[k:KNOWS]->(b:Contact)<-[:OWNS]-(u)
RETURN k.relationshipId AS relationshipId,
       a.contactId AS contactAId,
       b.contactId AS contactBId,
       false AS isUserRelationship,
       k.relationshipType AS relationshipType,
       k.strength AS strength,
       k.verified AS verified,
       k.aiInferred AS aiInferred,
       k.confidence AS confidence,
       k.updatedAt AS updatedAt
`

const teamNetworksCypher = `
MATCH (:User {userId: $userId})-[:MEMBER_OF]->(t:Team)
OPTIONAL MATCH (t)<-[:MEMBER_OF]-(m:User)
WHERE m.userId <> $userId
WITH t, collect(DISTINCT m {.userId, .name, .email, .createdAt, .updatedAt}) AS members
OPTIONAL MATCH (t)<-[s:SHARED_WITH]-(c:Contact)<-[:OWNS]-(owner:User)
WITH t, members, collect(CASE WHEN c IS NULL THEN NULL ELSE {
       contactId: c.contactId,
       ownerUserId: owner.userId,
       name: c.name,
       email: c.email,
       company: c.company,
       title: c.title,
       industry: c.industry,
       createdAt: c.createdAt,
       updatedAt: c.updatedAt,
       visible: s.visible
     } END) AS shares
RETURN t.teamId AS teamId,
       t.name AS teamName,
       t.createdAt AS createdAt,
       members,
       shares
ORDER BY teamId
`
